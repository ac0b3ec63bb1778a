package notes

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/netopt-project/netopt-release/internal/domain/release"
)

const notesTemplate = `# {{.Title}}

智能 TCP 连接管理和优化工具 / Smart TCP connection management and optimization tool

## ✨ 新功能 / What's New

- 实时 TCP 连接监控 / Real-time TCP connection monitoring
- 进程连接健康评分 / Per-process connection health scoring
- 策略引擎：阈值告警与自动优化 / Policy engine with threshold alerts and auto-optimization
- TCP 参数一键调优（高性能 / 保守预设） / One-click TCP tuning with high-performance and conservative presets
- 中英双语界面 / Bilingual interface (中文 / English)

## 📦 下载 / Downloads

| 平台 / Platform | 文件 / File |
|-----------------|-------------|
{{- range .Rows}}
| {{.Platform}} | {{.File}} |
{{- end}}

## 🚀 快速开始 / Quick Start

macOS:

    tar -xzf {{.MacFile}}
    cd {{.MacDir}}
    ./netopt-gui

Windows: 解压 {{.WinFile}} 后运行 netopt-gui.exe / unpack {{.WinFile}} and run netopt-gui.exe.

## ⚠️ 注意事项 / Notes

- 修改系统 TCP 参数需要管理员权限。/ Administrator privileges are required to change system TCP settings.
- Windows 上部分 TCP 设置修改后需要重启系统生效。/ Some TCP settings on Windows take effect after a system restart.

## 🔐 校验 / Verify

下载后请使用 {{.Manifest}} 校验文件完整性 / Verify downloads against {{.Manifest}}:

    shasum -a 256 -c {{.Manifest}}
`

var tmpl = template.Must(template.New("notes").Parse(notesTemplate))

// row is one platform line of the download table.
type row struct {
	Platform string
	File     string
}

// data feeds the notes template.
type data struct {
	Title    string
	Rows     []row
	MacFile  string
	MacDir   string
	WinFile  string
	Manifest string
}

// Render produces the release notes for a version. Identical inputs render
// identical notes.
func Render(project, version string) (string, error) {
	targets := release.Targets()
	rows := make([]row, 0, len(targets))

	for _, target := range targets {
		rows = append(rows, row{
			Platform: target.Platform().Name,
			File:     target.ArchiveName(project, version),
		})
	}

	var buf bytes.Buffer

	err := tmpl.Execute(&buf, data{
		Title:    release.Title(version),
		Rows:     rows,
		MacFile:  release.TargetDarwinARM64.ArchiveName(project, version),
		MacDir:   release.TargetDarwinARM64.StagingName(project, version),
		WinFile:  release.TargetWindowsAMD64.ArchiveName(project, version),
		Manifest: release.ManifestName,
	})
	if err != nil {
		return "", fmt.Errorf("render release notes: %w", err)
	}

	return buf.String(), nil
}

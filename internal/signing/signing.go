package signing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/logger"
)

// signaturePerm is the permission mode of the written signature file.
const signaturePerm = 0o644

var (
	errNoKeys       = errors.New("no keys found in key file")
	errNoPrivateKey = errors.New("no private key found in key file")
)

// ClearSign wraps the manifest at manifestPath in a cleartext signature and
// writes it next to the manifest, returning the signature path.
func ClearSign(ctx context.Context, manifestPath string, cfg config.Signing) (string, error) {
	keyData, err := os.ReadFile(filepath.Clean(cfg.KeyFile))
	if err != nil {
		return "", fmt.Errorf("read signing key: %w", err)
	}

	manifest, err := os.ReadFile(filepath.Clean(manifestPath))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	signed, err := signData(keyData, []byte(cfg.Passphrase), manifest)
	if err != nil {
		return "", fmt.Errorf("sign manifest: %w", err)
	}

	signaturePath := manifestPath + ".asc"
	if err = os.WriteFile(signaturePath, signed, signaturePerm); err != nil {
		return "", fmt.Errorf("write signature: %w", err)
	}

	logger.InfoKV(ctx, "Signed checksum manifest", "path", signaturePath)

	return signaturePath, nil
}

// signData produces a cleartext signature over data with the first key of
// the armored keyring, decrypting it with the passphrase when needed.
func signData(privateKey, passphrase, data []byte) ([]byte, error) {
	entity, err := decodePrivateEntity(privateKey, passphrase)
	if err != nil {
		return nil, err
	}

	signed := new(bytes.Buffer)

	encoder, err := clearsign.Encode(signed, entity.PrivateKey, nil)
	if err != nil {
		return nil, err
	}

	if _, err = encoder.Write(data); err != nil {
		return nil, err
	}

	if err = encoder.Close(); err != nil {
		return nil, err
	}

	return signed.Bytes(), nil
}

// decodePrivateEntity loads the first entity of the armored keyring and
// unlocks its private material.
func decodePrivateEntity(privateKey, passphrase []byte) (*openpgp.Entity, error) {
	entityList, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(privateKey))
	if err != nil {
		return nil, err
	}

	if len(entityList) == 0 {
		return nil, errNoKeys
	}

	// A key file holding only public material cannot sign anything.
	entity := entityList[0]
	if entity.PrivateKey == nil {
		return nil, errNoPrivateKey
	}

	if entity.PrivateKey.Encrypted {
		if err = entity.PrivateKey.Decrypt(passphrase); err != nil {
			return nil, err
		}
	}

	for _, sub := range entity.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err = sub.PrivateKey.Decrypt(passphrase); err != nil {
				return nil, err
			}
		}
	}

	return entity, nil
}

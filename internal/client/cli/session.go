package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
)

// keySize is the length of generated keys in bytes (AES-128).
const keySize = 16

// getSecret and getSimpleText are test seams over the input helpers.
var (
	getSecret     = GetSecret
	getSimpleText = GetSimpleText
)

func (a *App) Login(ctx context.Context) error {
	raw, err := getSecret("Enter vault key (hex)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(raw)

	ok, err := a.verifier.Verify(ctx, strings.TrimSpace(string(raw)))
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Wrong key.")
		return nil
	}

	printlnFn("Key verified.")
	return a.Sync(ctx)
}

// Keygen prints a fresh random key, or with -p a key derived from a
// passphrase and salt. Deriving is repeatable: the same passphrase and salt
// give the same key.
func (a *App) Keygen(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		key, err := common.MakeRandHexString(keySize)
		if err != nil {
			return err
		}
		printlnFn("Key:", key)
		return nil

	case len(args) == 1 && args[0] == "-p":
		return a.deriveKey()

	default:
		printlnFn("Usage: keygen [-p]")
		return nil
	}
}

func (a *App) deriveKey() error {
	pass, err := getSecret("Enter passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)
	if len(pass) == 0 {
		return fmt.Errorf("passphrase must not be empty")
	}

	saltHex, err := getSimpleText(a.reader, "Salt in hex (empty for a random one)", a.out)
	if err != nil {
		return err
	}

	var salt []byte
	if saltHex == "" {
		salt = common.GenerateRandByteArray(keySize)
	} else if salt, err = cryptox.HexToBytes(saltHex); err != nil {
		return err
	}

	key := cryptox.DeriveKey(pass, salt, keySize)
	defer common.WipeByteArray(key)

	printlnFn("Key: ", cryptox.BytesToHex(key))
	printlnFn("Salt:", cryptox.BytesToHex(salt))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if err := a.syncer.Sync(ctx); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Index loaded: %d records.", a.index.Len()))
	return nil
}

func (a *App) Forget(ctx context.Context) error {
	if err := a.verifier.Forget(ctx); err != nil {
		return err
	}
	printlnFn("Saved key removed.")
	return nil
}

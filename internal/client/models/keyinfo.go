package models

import "gopkg.in/yaml.v3"

// KeyInfo is the unencrypted key descriptor (data/key_info.yaml).
type KeyInfo struct {
	// KeyHash is a short lowercase hex prefix of SHA-256(key).
	KeyHash string `yaml:"key_hash"`
	// IV is the hex IV of the encrypted index.
	IV string `yaml:"iv"`
}

// ParseKeyInfo decodes a key descriptor document.
func ParseKeyInfo(data []byte) (*KeyInfo, error) {
	var ki KeyInfo
	if err := yaml.Unmarshal(data, &ki); err != nil {
		return nil, err
	}
	return &ki, nil
}

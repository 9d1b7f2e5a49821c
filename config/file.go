package config

import "os"

const defaultFilePerm = 0o600

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, defaultFilePerm)
}

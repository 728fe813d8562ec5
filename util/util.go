// Package util is a grab bag for log file and config chores.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OpenLog opens path for appending, falling back to discard.
func OpenLog(path string, mode os.FileMode) (file io.Writer) {

	if path == "" {
		return io.Discard
	}

	var err error
	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		fmt.Printf("warning: %s\n", err.Error())
		file = io.Discard
	}

	return
}

// CloseLog closes file if it is one.
func CloseLog(file io.Writer) {

	actually, ok := file.(*os.File)
	if ok {
		actually.Close()
	}
}

// LoadConfig unmarshals yaml at path into cfg.
func LoadConfig(cfg any, path string) (err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	err = yaml.Unmarshal(data, cfg)
	err = errors.Wrapf(err, "failed to unmarshal %s", path)
	return
}

// WriteConfig marshals cfg as yaml to path.
func WriteConfig(cfg any, path string, mode os.FileMode) (err error) {

	data, err := yaml.Marshal(cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal")
		return
	}

	err = os.WriteFile(path, data, mode)
	err = errors.Wrapf(err, "failed to write to %s", path)
	return
}

// SampleConfig writes cfg to path unless something is already there.
// It reports whether a sample was written.
func SampleConfig(cfg any, path string, mode os.FileMode) (wrote bool, err error) {

	_, err = os.Stat(path)
	if err == nil {
		return // already have a cfg
	}
	if !os.IsNotExist(err) {
		err = errors.Wrapf(err, "failed to stat %s", path)
		return
	}

	err = WriteConfig(cfg, path, mode)
	wrote = err == nil
	return
}

package io

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"regexp"
)

// Fixture directory layout.
const (
	DIR_INPUT    = "input"    // Instruction memory images.
	DIR_EXPECTED = "expected" // Expected register files.
	DIR_SOURCE   = "source"   // Assembly source of the images.
)

var reScenario = regexp.MustCompile(`^test_([A-Za-z0-9_]+)\.mem$`)
var reScenarioName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Fixtures is a directory of scenarios. Scenario NAME is the image
// input/test_NAME.mem, checked against expected/test_NAME.mem.
type Fixtures struct {
	FS fs.FS
}

func scenarioFile(name string) string {
	return "test_" + name + ".mem"
}

// ImagePath returns the path of a scenario's image.
func (fx *Fixtures) ImagePath(name string) string {
	return path.Join(DIR_INPUT, scenarioFile(name))
}

// ExpectedPath returns the path of a scenario's expected register file.
func (fx *Fixtures) ExpectedPath(name string) string {
	return path.Join(DIR_EXPECTED, scenarioFile(name))
}

// SourcePath returns the path of a scenario's assembly source.
func (fx *Fixtures) SourcePath(name string) string {
	return path.Join(DIR_SOURCE, name+".s")
}

// Image reads a scenario's instruction memory image.
func (fx *Fixtures) Image(name string) (image []uint32, err error) {
	if !reScenarioName.MatchString(name) {
		err = ErrScenarioName
		return
	}

	file, err := fx.FS.Open(fx.ImagePath(name))
	if err != nil {
		return
	}
	defer file.Close()

	return ReadImage(file)
}

// Expected reads a scenario's expected register file. A missing file
// checks nothing.
func (fx *Fixtures) Expected(name string) (exp Expected, err error) {
	if !reScenarioName.MatchString(name) {
		err = ErrScenarioName
		return
	}

	file, err := fx.FS.Open(fx.ExpectedPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	defer file.Close()

	return ReadExpected(file)
}

// Source opens a scenario's assembly source.
func (fx *Fixtures) Source(name string) (file fs.File, err error) {
	if !reScenarioName.MatchString(name) {
		err = ErrScenarioName
		return
	}

	return fx.FS.Open(fx.SourcePath(name))
}

// Scenarios lists the scenarios that have an image, in name order.
func (fx *Fixtures) Scenarios() (names []string, err error) {
	entries, err := fs.ReadDir(fx.FS, DIR_INPUT)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := reScenario.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		names = append(names, match[1])
	}

	return
}

// subDir returns the subdirectory name of filesys, creating it if needed.
func subDir(filesys CreateFS, name string) (subsys CreateFS, err error) {
	subsys, err = filesys.Sub(name)
	if err == nil {
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return
	}

	// Create the directory
	err = filesys.Mkdir(name, 0755)
	if err != nil {
		return
	}

	return filesys.Sub(name)
}

// copyFile copies a file from the fixtures to dir.
func (fx *Fixtures) copyFile(filesys CreateFS, dir string, name string) (err error) {
	src, err := fx.FS.Open(path.Join(dir, name))
	if err != nil {
		return
	}
	defer src.Close()

	subsys, err := subDir(filesys, dir)
	if err != nil {
		return
	}

	dst, err := subsys.Create(name)
	if err != nil {
		return
	}

	_, err = io.Copy(dst, src)
	err = errors.Join(err, dst.Close())

	return
}

// Marshal copies scenarios, images and any expected register files, into a
// writable file system with the same layout.
func (fx *Fixtures) Marshal(filesys CreateFS, names ...string) (err error) {
	for _, name := range names {
		if !reScenarioName.MatchString(name) {
			err = ErrScenarioName
			return
		}

		err = fx.copyFile(filesys, DIR_INPUT, scenarioFile(name))
		if err != nil {
			return
		}

		err = fx.copyFile(filesys, DIR_EXPECTED, scenarioFile(name))
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return
		}
	}

	return
}

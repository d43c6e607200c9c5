//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Replays the sample session headless and writes snapshot.png.
func (Run) Headless() error {
	fmt.Println("Run planar headless...")
	return runPlanar("headless.toml", "headless")
}

// Opens a window; left clicks become taps.
func (Run) Window() error {
	fmt.Println("Run planar in a window...")
	return runPlanar("window.toml", "window")
}

func runPlanar(name, kind string) error {
	config, err := writeConfig(name, kind)
	if err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("run", ".", "-config", config), withStream()); err != nil {
		return err
	}
	return nil
}

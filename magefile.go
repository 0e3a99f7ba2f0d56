// +build mage

package main

import (
	"log"
	"os"
	"path"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Project directory tree. Values populated by initPaths().
var (
	MageRoot     string // location of this file
	InternalPath string // internal subdir
)

func initPaths() {
	must := func(_err error) {
		if _err != nil {
			log.Fatal(_err)
		}
	}
	var err error
	MageRoot, err = os.Getwd()
	must(err)
	InternalPath = path.Join(MageRoot, "internal")
}

var Default = Build

// Build compiles the note binary.
func Build() {
	initPaths()
	if err := sh.Run("go", "build"); err != nil {
		log.Fatal(err)
	}
}

// Vet runs go vet across the module.
func Vet() error {
	return sh.Run("go", "vet", "./...")
}

// Test runs the full test suite.
func Test() error {
	mg.Deps(Vet)
	return sh.Run("go", "test", "./...")
}

// Run builds and starts the service in debug mode.
func Run() {
	mg.Deps(Build)
	if err := sh.Run(path.Join(MageRoot, "note"), "-d"); err != nil {
		log.Fatal(err)
	}
}

// Clean removes build artifacts.
func Clean() {
	initPaths()
	if err := os.Remove(path.Join(MageRoot, "note")); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}
}

// Package main provides tests for the pipemenu CLI.
package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stagecraft-labs/pipemenu/internal/cli"
	"github.com/stagecraft-labs/pipemenu/internal/testutil"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "pipemenu") {
		t.Errorf("version output should contain 'pipemenu', got: %s", output)
	}
}

func TestHelpOutput(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help error = %v", err)
	}

	output := buf.String()
	for _, sub := range []string{"tree", "resolve", "run", "watch", "history", "init"} {
		if !strings.Contains(output, sub) {
			t.Errorf("help output should list %q, got: %s", sub, output)
		}
	}
}

func TestTreeCommandInProject(t *testing.T) {
	root := testutil.SetupTestProject(t)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"tree", "-o", "text"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tree command error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Loader", "Apps"} {
		if !strings.Contains(output, want) {
			t.Errorf("tree output should contain %q, got: %s", want, output)
		}
	}
}

func TestResolveCommandOutsideProject(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"resolve", "anything.mg"})

	if err := cmd.Execute(); err == nil {
		t.Error("resolve outside a project should fail config validation")
	}
}

package cmd

import (
	"bytes"
	"os"
	"testing"
)

const validConfigYAML = `
vantages:
  central:
    address: "central.example.com"
    user: "ec2-user"
    key_path: "/keys/central.pem"
  domestic:
    address: "domestic.example.com"
    user: "root"
    key_path: "/keys/domestic.pem"
event_store:
  driver: "memory"
host_store:
  driver: "memory"
output:
  dir: "./rules"
`

func TestRunValidate_ValidConfigSucceeds(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.WriteString(validConfigYAML); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	tmpFile.Close()

	origPath := configPath
	configPath = tmpFile.Name()
	defer func() { configPath = origPath }()

	var out bytes.Buffer
	validateCmd.SetOut(&out)

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected a confirmation message, got none")
	}
}

func TestRunValidate_MissingFileFailsBeforeAnyIO(t *testing.T) {
	origPath := configPath
	configPath = "/nonexistent/config.yaml"
	defer func() { configPath = origPath }()

	if err := runValidate(validateCmd, nil); err == nil {
		t.Error("expected an error for a missing config file, got nil")
	}
}

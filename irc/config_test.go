// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chinnucsk/ircd-pony/irc/logger"
)

func TestLoadDefaultConfig(t *testing.T) {
	config, err := LoadConfig("../ircd.yaml")
	if err != nil {
		t.Fatalf("the shipped config did not load: %v", err)
	}

	if config.Network.Name != "PonyNet" {
		t.Errorf("network name: %q", config.Network.Name)
	}
	if config.Server.Name != "ircd.example" {
		t.Errorf("server name: %q", config.Server.Name)
	}
	if _, ok := config.Server.Listeners[":6667"]; !ok {
		t.Error("expected a listener on :6667")
	}
	if config.Server.MaxSendQBytes != 96*1024 {
		t.Errorf("max-sendq: %d", config.Server.MaxSendQBytes)
	}
	if !config.Server.LookupHostnames {
		t.Error("expected hostname lookups to be on")
	}
	if config.Server.CheckIdent {
		t.Error("expected ident lookups to be off")
	}

	if len(config.Logging) != 1 {
		t.Fatalf("expected one logging block, got %d", len(config.Logging))
	}
	lc := config.Logging[0]
	if !lc.MethodStderr || lc.MethodStdout || lc.MethodFile {
		t.Errorf("logging methods parsed wrong: %+v", lc)
	}
	if lc.Level != logger.LogInfo {
		t.Errorf("logging level parsed wrong: %v", lc.Level)
	}
	if len(lc.Types) != 1 || lc.Types[0] != "*" {
		t.Errorf("logging types parsed wrong: %v", lc.Types)
	}
	if len(lc.ExcludedTypes) != 2 {
		t.Errorf("logging excluded types parsed wrong: %v", lc.ExcludedTypes)
	}
}

func loadConfigLiteral(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "ircd.yaml")
	if err := os.WriteFile(filename, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return LoadConfig(filename)
}

func TestLoadConfigRejectsBadConfigs(t *testing.T) {
	testCases := []struct {
		desc string
		yaml string
	}{
		{
			"missing network name",
			"server:\n    name: ircd.example\n    listeners:\n        \":6667\": {}\n",
		},
		{
			"missing server name",
			"network:\n    name: PonyNet\nserver:\n    listeners:\n        \":6667\": {}\n",
		},
		{
			"server name is not a hostname",
			"network:\n    name: PonyNet\nserver:\n    name: \"not a hostname\"\n    listeners:\n        \":6667\": {}\n",
		},
		{
			"no listeners",
			"network:\n    name: PonyNet\nserver:\n    name: ircd.example\n",
		},
		{
			"unparseable sendq",
			"network:\n    name: PonyNet\nserver:\n    name: ircd.example\n    listeners:\n        \":6667\": {}\n    max-sendq: lots\n",
		},
		{
			"file logging without a filename",
			"network:\n    name: PonyNet\nserver:\n    name: ircd.example\n    listeners:\n        \":6667\": {}\nlogging:\n    -\n        method: file\n        type: \"*\"\n        level: info\n",
		},
		{
			"unknown log level",
			"network:\n    name: PonyNet\nserver:\n    name: ircd.example\n    listeners:\n        \":6667\": {}\nlogging:\n    -\n        method: stderr\n        type: \"*\"\n        level: loud\n",
		},
	}

	for _, tc := range testCases {
		if _, err := loadConfigLiteral(t, tc.yaml); err == nil {
			t.Errorf("%s: expected config to be rejected", tc.desc)
		}
	}
}

func TestLoadConfigDefaultSendQ(t *testing.T) {
	config, err := loadConfigLiteral(t,
		"network:\n    name: PonyNet\nserver:\n    name: ircd.example\n    listeners:\n        \":6667\": {}\n")
	if err != nil {
		t.Fatal(err)
	}
	if config.Server.MaxSendQBytes != 96*1024 {
		t.Errorf("expected the default sendq, got %d", config.Server.MaxSendQBytes)
	}
}

package aws

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ProfileDiscovery finds profile names in the AWS shared config files.
type ProfileDiscovery struct {
	credentialsPath string
	configPath      string
}

// NewProfileDiscovery honours AWS_SHARED_CREDENTIALS_FILE and
// AWS_CONFIG_FILE, defaulting to ~/.aws.
func NewProfileDiscovery() *ProfileDiscovery {
	home, _ := os.UserHomeDir()
	d := ProfileDiscovery{
		credentialsPath: filepath.Join(home, ".aws", "credentials"),
		configPath:      filepath.Join(home, ".aws", "config"),
	}
	if p := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); p != "" {
		d.credentialsPath = p
	}
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		d.configPath = p
	}

	return &d
}

// ProfileNames returns every profile declared in either file. Missing files
// are not an error.
func (d *ProfileDiscovery) ProfileNames() (map[string]struct{}, error) {
	names := make(map[string]struct{})

	if _, err := os.Stat(d.credentialsPath); err == nil {
		credFile, err := ini.Load(d.credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials file: %w", err)
		}
		for _, section := range credFile.Sections() {
			if name := section.Name(); name != ini.DefaultSection {
				names[name] = struct{}{}
			}
		}
	}

	if _, err := os.Stat(d.configPath); err == nil {
		configFile, err := ini.Load(d.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		for _, section := range configFile.Sections() {
			name := section.Name()
			switch {
			case name == "default":
				names["default"] = struct{}{}
			case strings.HasPrefix(name, "profile "):
				names[strings.TrimPrefix(name, "profile ")] = struct{}{}
			}
		}
	}

	return names, nil
}

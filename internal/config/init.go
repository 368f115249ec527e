package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# adocbuild configuration
build:
  directory: build      # recreated from scratch on every build
  index_name: index     # produces build/index.html
  index_title: Index

source:
  document_extensions: [.adoc]
  rendered_extension: .html

renderer:
  command: asciidoctor
  requires: [asciidoctor-diagram]
  timeout: 0s           # 0 disables the per-document timeout
  workdir: output       # output | inherit

metrics:
  textfile: ""          # e.g. /var/lib/node_exporter/adocbuild.prom

watch:
  debounce: 300ms
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

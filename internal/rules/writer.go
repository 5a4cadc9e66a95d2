// Package rules serializes RouteRules into the payload document format
// consumed by the downstream publisher.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"routeanalyzer/internal/model"
)

// payloadDocument is the wire shape of one region's output file:
//
//	payload:
//	  - host1
//	  - host2
type payloadDocument struct {
	Payload []string `yaml:"payload"`
}

// Writer publishes a RouteRules set as one YAML document per region tag,
// named "<dir>/<region>.yaml".
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter builds a Writer that publishes under dir. Write creates dir if
// absent.
func NewWriter(dir string, logger zerolog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger.With().Str("component", "rules-writer").Logger(),
	}
}

// Write emits one file per region in rules, each containing a payload:
// document. An empty region still produces "payload: []".
func (w *Writer) Write(rules model.RouteRules) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %q: %w", w.dir, err)
	}

	for _, region := range rules.SortedRegions() {
		hosts := rules[region]
		if hosts == nil {
			hosts = []string{}
		}

		doc := payloadDocument{Payload: hosts}
		data, err := yaml.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("marshal region %q: %w", region, err)
		}

		path := filepath.Join(w.dir, region+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
		w.logger.Debug().Str("region", region).Str("path", path).Int("hosts", len(hosts)).Msg("wrote route rules")
	}

	w.logger.Info().Int("regions", len(rules)).Str("dir", w.dir).Msg("published route rules")
	return nil
}

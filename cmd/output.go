package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mittwald/smoketest/pkg/client"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// printer writes reports to stdout in the selected format.
type printer struct {
	out     io.Writer
	format  string
	noColor bool
}

func newPrinter(out io.Writer, format string, noColor bool) (*printer, error) {
	switch format {
	case outputText, outputJSON, outputYAML:
	default:
		return nil, &client.ConfigError{Field: "output", Reason: fmt.Sprintf("unknown format %q", format)}
	}

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return &printer{out: out, format: format, noColor: noColor}, nil
}

// print renders report in the structured formats, or calls text for the
// human readable one.
func (p *printer) print(report interface{}, text func() string) error {
	switch p.format {
	case outputJSON:
		jsonBody, err := json.Marshal(report)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal report as JSON")
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, jsonBody, "", "    "); err != nil {
			return err
		}

		out := buf.Bytes()
		if !p.noColor {
			out = pretty.Color(out, nil)
		}
		_, err = fmt.Fprintln(p.out, string(out))
		return err

	case outputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrapf(err, "failed to marshal report as YAML")
		}
		return enc.Close()

	default:
		_, err := fmt.Fprintln(p.out, text())
		return err
	}
}

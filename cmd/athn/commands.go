package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/goliatone/go-athn"
	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/fill"
	"github.com/goliatone/go-athn/pkg/model"
	"github.com/goliatone/go-athn/pkg/validation"
)

var errInvalidSubmission = errors.New("submission is invalid")

type documentOutput struct {
	Source   string             `json:"source" yaml:"source"`
	Document model.DocumentView `json:"document" yaml:"document"`
}

type formOutput struct {
	Index  int               `json:"index" yaml:"index"`
	Fields []model.FieldView `json:"fields" yaml:"fields"`
	Submit *model.FieldView  `json:"submit,omitempty" yaml:"submit,omitempty"`
	Schema map[string]any    `json:"schema" yaml:"schema"`
}

func (a *application) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse documents and print their structure",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("parse: at least one document is required")
			}
			docs, err := a.parseDocuments(c, c.Args().Slice()...)
			if err != nil {
				return err
			}
			out := make([]documentOutput, len(docs))
			for i, doc := range docs {
				out[i] = documentOutput{Source: c.Args().Get(i), Document: model.Snapshot(doc)}
			}
			return encode(a.stdout, a.cfg.Output, out)
		},
	}
}

func (a *application) formsCommand() *cli.Command {
	return &cli.Command{
		Name:      "forms",
		Usage:     "Print the forms of a document with their submission schema",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "form", Aliases: []string{"f"}, Value: -1, Usage: "Only print the form with this index"},
		},
		Action: func(c *cli.Context) error {
			doc, err := a.parseDocument(c)
			if err != nil {
				return err
			}

			forms := model.Forms(doc)
			if index := c.Int("form"); index >= 0 {
				form, ok := model.FormByIndex(doc, index)
				if !ok {
					return fmt.Errorf("forms: no form with index %d", index)
				}
				forms = []model.Form{form}
			}

			out := make([]formOutput, 0, len(forms))
			for _, form := range forms {
				view, err := viewForm(form)
				if err != nil {
					return err
				}
				out = append(out, view)
			}
			return encode(a.stdout, a.cfg.Output, out)
		},
	}
}

func (a *application) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a JSON submission against a form",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "form", Aliases: []string{"f"}, Usage: "Form index"},
			&cli.StringFlag{Name: "values", Aliases: []string{"v"}, Required: true, Usage: "Path to a JSON object with the submitted values"},
		},
		Action: func(c *cli.Context) error {
			form, err := a.selectForm(c)
			if err != nil {
				return err
			}
			values, err := readValues(c.String("values"))
			if err != nil {
				return err
			}

			result := validation.Validate(c.Context, form, values)
			if err := encode(a.stdout, a.cfg.Output, result); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalidSubmission
			}
			return nil
		},
	}
}

func (a *application) fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "Fill a form interactively and print the validated submission",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "form", Aliases: []string{"f"}, Usage: "Form index"},
		},
		Action: func(c *cli.Context) error {
			form, err := a.selectForm(c)
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = fill.NewSurveyDriver(a.stderr)
			}
			values, err := fill.New(fill.WithPromptDriver(driver)).Fill(c.Context, form)
			if err != nil {
				return err
			}

			result := validation.Validate(c.Context, form, values)
			if err := encode(a.stdout, a.cfg.Output, result); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalidSubmission
			}
			return nil
		},
	}
}

func (a *application) parseDocuments(c *cli.Context, args ...string) ([]model.Document, error) {
	sources := make([]pkgathn.Source, 0, len(args))
	for _, arg := range args {
		src, err := parseSource(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid source %q: %w", arg, err)
		}
		sources = append(sources, src)
	}
	return athn.ParseAll(c.Context, sources,
		athn.WithBatchLoader(athn.NewLoader(a.loaderOptions()...)),
		athn.WithConcurrency(a.cfg.Concurrency),
		athn.WithBatchLogger(a.logger),
	)
}

func (a *application) parseDocument(c *cli.Context) (model.Document, error) {
	if c.NArg() != 1 {
		return model.Document{}, fmt.Errorf("%s: exactly one document is required", c.Command.Name)
	}
	docs, err := a.parseDocuments(c, c.Args().First())
	if err != nil {
		return model.Document{}, err
	}
	return docs[0], nil
}

func (a *application) selectForm(c *cli.Context) (model.Form, error) {
	doc, err := a.parseDocument(c)
	if err != nil {
		return model.Form{}, err
	}
	index := c.Int("form")
	form, ok := model.FormByIndex(doc, index)
	if !ok {
		return model.Form{}, fmt.Errorf("%s: no form with index %d", c.Command.Name, index)
	}
	return form, nil
}

func viewForm(form model.Form) (formOutput, error) {
	out := formOutput{Index: form.Index}
	for _, field := range form.Fields {
		if _, ok := field.(model.SubmitField); ok {
			continue
		}
		out.Fields = append(out.Fields, model.ViewField(field))
	}
	if form.Submit != nil {
		submit := model.ViewField(*form.Submit)
		out.Submit = &submit
	}

	payload, err := json.Marshal(validation.SchemaFor(form))
	if err != nil {
		return formOutput{}, fmt.Errorf("forms: encode schema: %w", err)
	}
	if err := json.Unmarshal(payload, &out.Schema); err != nil {
		return formOutput{}, fmt.Errorf("forms: decode schema: %w", err)
	}
	return out, nil
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

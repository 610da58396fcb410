package fill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a single-line answer: string, number, date, email
// and phone fields, plus the entry count of a list.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig describes a bool field or an optional-field gate.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a string field restricted to variants.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// TextAreaConfig describes a multiline string field.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver is the terminal seen by a Filler. Tests substitute a scripted
// implementation.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a PromptDriver backed by survey. Submit labels and
// list entry headings go to out, or stdout when nil. When out is a terminal
// file the prompts render there too, leaving stdout to encoded output.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	d := &surveyDriver{out: out}
	if file, ok := out.(terminal.FileWriter); ok {
		d.opts = append(d.opts, survey.WithStdio(os.Stdin, file, os.Stderr))
	}
	return d
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	return askOne[string](ctx, inputPrompt(cfg), d.with(validatorOpts(cfg.Validator))...)
}

func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return askOne[string](ctx, passwordPrompt(cfg), d.with(validatorOpts(cfg.Validator))...)
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	return askOne[bool](ctx, confirmPrompt(cfg), d.opts...)
}

// Select answers with the chosen index; survey copies it out of the option
// answer when the target is an int.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if len(cfg.Options) == 0 {
		return 0, errors.New("fill: select without variants")
	}
	return askOne[int](ctx, selectPrompt(cfg), d.opts...)
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return askOne[string](ctx, textAreaPrompt(cfg), d.opts...)
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *surveyDriver) with(extra []survey.AskOpt) []survey.AskOpt {
	return append(append([]survey.AskOpt(nil), d.opts...), extra...)
}

// askOne runs a single prompt unless ctx is already done.
func askOne[T any](ctx context.Context, prompt survey.Prompt, opts ...survey.AskOpt) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		var zero T
		return zero, translateSurveyErr(err)
	}
	return answer, nil
}

func inputPrompt(cfg InputConfig) *survey.Input {
	return &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
}

// passwordPrompt never echoes a default for secret fields.
func passwordPrompt(cfg InputConfig) *survey.Password {
	return &survey.Password{Message: cfg.Message, Help: cfg.Help}
}

func confirmPrompt(cfg ConfirmConfig) *survey.Confirm {
	return &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
}

// selectPrompt preselects DefaultIndex when it names one of the options.
func selectPrompt(cfg SelectConfig) *survey.Select {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	return prompt
}

func textAreaPrompt(cfg TextAreaConfig) *survey.Multiline {
	return &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
}

func validatorOpts(validate func(string) error) []survey.AskOpt {
	if validate == nil {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
		text, _ := ans.(string)
		return validate(text)
	})}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

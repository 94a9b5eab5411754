// Package prompt collects configuration values from an operator over a
// sequence of terminal prompts. Each prompt carries a default (literal or
// lazily computed), an optional coercion/validation step, and optional
// input masking with a confirmation re-prompt for secrets. Keys already
// present in the variable mapping are never asked again, so callers can
// pre-seed answers.
package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/stackgen/pkg/variables"
)

// Prompter runs prompts against a Driver and writes answers into a
// variables.Map.
type Prompter struct {
	driver Driver
}

// Option customises the Prompter.
type Option func(*Prompter)

// WithDriver overrides the terminal driver. Tests use this to script
// answers without a real terminal.
func WithDriver(driver Driver) Option {
	return func(p *Prompter) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// New constructs a Prompter, defaulting to the survey-backed driver.
func New(options ...Option) *Prompter {
	p := &Prompter{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

type askConfig struct {
	def         string
	lazyDef     func() string
	hideDefault bool
	secret      bool
	help        string
	validate    func(string) (any, error)
}

// AskOption customises a single Ask call.
type AskOption func(*askConfig)

// Default sets a literal default value, shown in the prompt unless
// HideDefault is also applied.
func Default(value string) AskOption {
	return func(cfg *askConfig) {
		cfg.def = value
	}
}

// LazyDefault sets a default computed only when the prompt actually runs.
// Used for expensive or random defaults such as network lookups and
// generated passwords.
func LazyDefault(fn func() string) AskOption {
	return func(cfg *askConfig) {
		cfg.lazyDef = fn
	}
}

// HideDefault keeps the default out of the prompt text. An empty answer
// still resolves to the default.
func HideDefault() AskOption {
	return func(cfg *askConfig) {
		cfg.hideDefault = true
	}
}

// Secret masks the operator's input and asks for it a second time; the two
// answers must match before the value is accepted.
func Secret() AskOption {
	return func(cfg *askConfig) {
		cfg.secret = true
	}
}

// Help attaches help text surfaced by the terminal driver.
func Help(text string) AskOption {
	return func(cfg *askConfig) {
		cfg.help = text
	}
}

// Validate attaches a coercion/validation step. The returned value (e.g.
// an int parsed from the raw answer) is what gets stored; a non-nil error
// re-prompts the operator.
func Validate(fn func(string) (any, error)) AskOption {
	return func(cfg *askConfig) {
		cfg.validate = fn
	}
}

// Ask solicits a value for key unless vars already holds one. The answer,
// after default substitution and validation, is stored under key.
func (p *Prompter) Ask(ctx context.Context, vars variables.Map, key, message string, options ...AskOption) error {
	if vars.Has(key) {
		return nil
	}

	var cfg askConfig
	for _, opt := range options {
		opt(&cfg)
	}

	def := cfg.def
	if cfg.lazyDef != nil {
		def = cfg.lazyDef()
	}

	for {
		raw, err := p.read(ctx, message, def, cfg)
		if err != nil {
			return err
		}
		if raw == "" {
			raw = def
		}

		value := any(raw)
		if cfg.validate != nil {
			value, err = cfg.validate(raw)
			if err != nil {
				if infoErr := p.driver.Info(ctx, fmt.Sprintf("Invalid value for %s: %v", key, err)); infoErr != nil {
					return infoErr
				}
				continue
			}
		}

		vars[key] = value
		return nil
	}
}

func (p *Prompter) read(ctx context.Context, message, def string, cfg askConfig) (string, error) {
	if !cfg.secret {
		in := InputConfig{Message: message, Help: cfg.help}
		if !cfg.hideDefault {
			in.Default = def
		}
		return p.driver.Input(ctx, in)
	}

	// Masked input never displays the default inline; a visible default is
	// appended to the message instead.
	if !cfg.hideDefault && def != "" {
		message = fmt.Sprintf("%s [%s]", message, def)
	}

	for {
		first, err := p.driver.Password(ctx, InputConfig{Message: message, Help: cfg.help})
		if err != nil {
			return "", err
		}
		if first == "" && def != "" {
			// Operator accepted the default; nothing to confirm.
			return "", nil
		}
		second, err := p.driver.Password(ctx, InputConfig{Message: "Repeat for confirmation"})
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		if err := p.driver.Info(ctx, "Error: the two entered values do not match"); err != nil {
			return "", err
		}
	}
}

// Confirm asks a yes/no question and returns the answer.
func (p *Prompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return p.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

// ChoiceOption pairs the stored value with the label shown to the operator.
type ChoiceOption struct {
	Value string
	Label string
}

// Choice asks the operator to pick one option and stores the picked value
// under key. Keys already present are not asked again.
func (p *Prompter) Choice(ctx context.Context, vars variables.Map, key, message string, options []ChoiceOption, def string) error {
	if vars.Has(key) {
		return nil
	}
	value, err := p.Pick(ctx, message, options, def)
	if err != nil {
		return err
	}
	vars[key] = value
	return nil
}

// Pick asks the operator to pick one option and returns the picked value.
func (p *Prompter) Pick(ctx context.Context, message string, options []ChoiceOption, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt: %q has no options", message)
	}

	labels := make([]string, len(options))
	defaultIdx := 0
	for i, option := range options {
		labels[i] = option.Label
		if option.Label == "" {
			labels[i] = option.Value
		}
		if option.Value == def {
			defaultIdx = i
		}
	}

	idx, err := p.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("prompt: %q returned index %d out of range", message, idx)
	}
	return options[idx].Value, nil
}

// Info relays a message to the operator through the driver.
func (p *Prompter) Info(ctx context.Context, msg string) error {
	return p.driver.Info(ctx, msg)
}

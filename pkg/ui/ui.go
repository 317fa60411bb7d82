// Package ui is the terminal frontend: styled status messages and
// interactive prompts for the migration commands.
package ui

import (
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

var hintStyle = color.New(color.FgBlue, color.Italic)

// Console prints styled output and asks the user questions.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

// Header prints a boxed section header.
func (c *Console) Header(text string) {
	pterm.DefaultBox.Println(pterm.Bold.Sprint(text))
}

func (c *Console) Println(text string) {
	pterm.Println(text)
}

// Working announces a step that is about to run.
func (c *Console) Working(text string) {
	pterm.Info.Println(text)
}

func (c *Console) Success(text string) {
	pterm.Success.Println(text)
}

func (c *Console) Warn(text string) {
	pterm.Warning.Println(text)
}

func (c *Console) Error(text string) {
	pterm.Error.Println(text)
}

// Hint prints supporting context for the next prompt.
func (c *Console) Hint(text string) {
	hintStyle.Println("Hint: " + text)
}

func (c *Console) Divider() {
	pterm.Println(pterm.Gray("---"))
}

// Ask prompts for a free-form answer. An empty defaultValue means the
// answer is required, so the prompt repeats until one is given.
func (c *Console) Ask(question, defaultValue string) (string, error) {
	for {
		answer, err := pterm.DefaultInteractiveTextInput.
			WithDefaultValue(defaultValue).
			Show(question)
		if err != nil {
			return "", errors.Errorf("reading answer: %w", err)
		}
		if answer != "" {
			return answer, nil
		}
		if defaultValue != "" {
			return defaultValue, nil
		}
		c.Warn("An answer is required.")
	}
}

// Select prompts for one of options.
func (c *Console) Select(question string, options []string, defaultOption string) (string, error) {
	sel := pterm.DefaultInteractiveSelect.WithOptions(options)
	if defaultOption != "" {
		sel = sel.WithDefaultOption(defaultOption)
	}

	answer, err := sel.Show(question)
	if err != nil {
		return "", errors.Errorf("reading selection: %w", err)
	}
	return answer, nil
}

// Confirm asks a yes/no question.
func (c *Console) Confirm(question string) (bool, error) {
	answer, err := pterm.DefaultInteractiveConfirm.Show(question)
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return answer, nil
}

// ConfirmUntilYes repeats the question until the user answers yes,
// printing reminder between attempts.
func (c *Console) ConfirmUntilYes(question, reminder string) error {
	for {
		ok, err := c.Confirm(question)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		c.Error(reminder)
	}
}

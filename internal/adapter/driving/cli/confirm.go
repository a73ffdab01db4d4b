package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// confirmPrompt asks a yes/no question on the terminal. Aborting the form
// counts as "no".
func confirmPrompt(title string) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Resolve").
				Negative("Cancel").
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	return ok, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
)

// Business registers the business details. The backend assigns the
// service type from the chosen category, and the session is rebuilt for it.
func (a *App) Business(ctx context.Context) error {
	if a.inventory == nil {
		return errNotLoggedIn
	}

	cats, err := a.account.Categories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return fmt.Errorf("no business categories available")
	}
	fmt.Fprintln(a.out, "Categories:")
	for _, c := range cats {
		fmt.Fprintf(a.out, "  %s) %s\n", c.ID, c.Name)
	}

	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	if !hasCategory(cats, category) {
		return fmt.Errorf("unknown category %q", category)
	}

	d := models.BusinessDetails{ID: models.NewRecordID, CategoryID: models.Flex(category)}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Business name", &d.Name},
		{"Address", &d.Address1},
		{"State", &d.State},
		{"Country", &d.Country},
		{"Zip code", &d.ZipCode},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	st, err := a.account.SaveBusinessDetails(ctx, d)
	if err != nil {
		return err
	}
	a.startSession(ctx)
	fmt.Fprintln(a.out, "Business saved, catalogue:", st)
	return nil
}

func hasCategory(cats []models.Category, id string) bool {
	for _, c := range cats {
		if c.ID.String() == id {
			return true
		}
	}
	return false
}

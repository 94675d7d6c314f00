package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/client/pagination"
	"github.com/dmitrijs2005/trackinventory/internal/client/services"
)

var (
	errNotLoggedIn = errors.New("please log in first")
	errNoList      = errors.New("open a list first: purchases, sales or inventory")
)

func (a *App) fetcher(list string) (*pagination.Fetcher[models.Item], error) {
	if a.inventory == nil {
		return nil, errNotLoggedIn
	}
	switch list {
	case "purchases":
		return a.inventory.Purchases(), nil
	case "sales":
		return a.inventory.Sales(), nil
	case "inventory":
		return a.inventory.Inventory(), nil
	}
	return nil, fmt.Errorf("unknown list %q", list)
}

// List makes list current and shows its first page.
func (a *App) List(ctx context.Context, list string) error {
	f, err := a.fetcher(list)
	if err != nil {
		return err
	}
	a.current, a.currentName = f, list
	if err := f.Refresh(ctx); err != nil {
		return err
	}
	a.printList(f.Snapshot())
	return nil
}

func (a *App) More(ctx context.Context) error {
	if a.current == nil {
		return errNoList
	}
	before := a.current.Snapshot()
	if !before.HasMore {
		fmt.Fprintln(a.out, "No more items")
		return nil
	}
	if err := a.current.LoadMore(ctx); err != nil {
		return err
	}
	a.printList(a.current.Snapshot())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if a.current == nil {
		return errNoList
	}
	if err := a.current.Refresh(ctx); err != nil {
		return err
	}
	a.printList(a.current.Snapshot())
	return nil
}

// Days applies a "last n days" window to the current list; "all" clears it.
func (a *App) Days(ctx context.Context, arg string) error {
	if a.current == nil {
		return errNoList
	}
	var days *int
	if arg != "all" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("days must be a positive number or 'all', got %q", arg)
		}
		days = &n
	}
	if err := a.current.SetWindow(ctx, days); err != nil {
		return err
	}
	a.printList(a.current.Snapshot())
	return nil
}

func (a *App) printList(st pagination.State[models.Item]) {
	if len(st.Items) == 0 {
		fmt.Fprintln(a.out, "No items")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTATUS")
	for _, it := range st.Items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", it.ID, it.Name, it.Price, it.Warranty)
	}
	_ = tw.Flush()

	window := "all time"
	if st.Days != nil {
		window = fmt.Sprintf("last %d days", *st.Days)
	}
	more := ""
	if st.HasMore {
		more = ", type 'more' for the next page"
	}
	fmt.Fprintf(a.out, "%d items (%s)%s\n", len(st.Items), window, more)
}

// Show prints one record from the session's catalogue.
func (a *App) Show(ctx context.Context, id string) error {
	if a.inventory == nil {
		return errNotLoggedIn
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if a.inventory.ServiceType() == models.ServiceVehicle {
		v, err := a.inventory.Vehicle(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "ID\t%s\n", v.ID)
		fmt.Fprintf(tw, "Name\t%s\n", v.Name)
		fmt.Fprintf(tw, "Model\t%s\n", v.Model)
		fmt.Fprintf(tw, "Price\t%.2f\n", v.Price)
		fmt.Fprintf(tw, "Status\t%s\n", services.StatusLabel(v.VehicleStatus))
		if v.TyrePercentage != "" {
			fmt.Fprintf(tw, "Tyres\t%s%%\n", v.TyrePercentage)
		}
		fmt.Fprintf(tw, "Created\t%s\n", v.CreatedAt)
		for _, u := range v.MediaURLs {
			fmt.Fprintf(tw, "Media\t%s\n", u)
		}
		return nil
	}

	p, err := a.inventory.Product(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name\t%s\n", p.Name)
	if p.Category != "" {
		fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	}
	if p.SerialNumber != "" {
		fmt.Fprintf(tw, "Serial\t%s\n", p.SerialNumber)
	}
	fmt.Fprintf(tw, "Price\t%.2f\n", p.Price)
	fmt.Fprintf(tw, "Warranty\t%s\n", services.PurchaseWarranty(p.Status))
	fmt.Fprintf(tw, "Status\t%s\n", services.StatusLabel(p.ProductStatus))
	fmt.Fprintf(tw, "Created\t%s\n", p.CreatedAt)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if a.inventory == nil {
		return errNotLoggedIn
	}
	st, err := a.inventory.Stats(ctx)
	if err != nil {
		return err
	}
	for _, k := range st.Keys() {
		fmt.Fprintf(a.out, "%s: %v\n", k, st[k])
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if a.inventory == nil {
		return errNotLoggedIn
	}
	u, err := a.account.UserDetails(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	if u.BusinessName != "" {
		fmt.Fprintf(a.out, "Business: %s\n", u.BusinessName)
	}
	fmt.Fprintf(a.out, "Catalogue: %s\n", a.inventory.ServiceType())
	return nil
}

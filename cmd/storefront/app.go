package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/orders"
	"github.com/safar/go-storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	errUsage     = errors.New("usage")
	errForbidden = errors.New("admin login required")
)

type app struct {
	catalog  *catalog.Catalog
	cart     *cart.Cart
	users    *auth.Directory
	ledger   *orders.Ledger
	checkout *checkout.Orchestrator
	out      io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, s store.Store, pub events.Publisher, logger *zap.Logger, out io.Writer) *app {
	admin := auth.AdminCredentials{Email: cfg.Shop.AdminEmail, Password: cfg.Shop.AdminPassword}
	ledger := orders.Open(ctx, s, logger, pub, orders.WithLocation(cfg.Shop.Location))

	return &app{
		catalog:  catalog.New(ctx, s, catalog.Defaults(), logger, pub),
		cart:     cart.New(ctx, s, logger, pub),
		users:    auth.NewDirectory(ctx, s, admin, logger, pub),
		ledger:   ledger,
		checkout: checkout.New(ledger, cfg.Shop.CODFee, logger),
		out:      out,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "products":
		category := catalog.CategoryAll
		if len(args) > 0 {
			category = args[0]
		}
		return a.printJSON(a.catalog.ByCategory(category))

	case "product":
		return a.product(ctx, args)

	case "search":
		return a.printJSON(a.catalog.Search(strings.Join(args, " ")))

	case "register":
		if len(args) < 3 {
			return fmt.Errorf("%w: register <email> <password> <name>", errUsage)
		}
		u, err := a.users.Register(ctx, args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return a.printJSON(u)

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("%w: login <email> <password>", errUsage)
		}
		u, err := a.users.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return a.printJSON(u)

	case "logout":
		a.users.Logout(ctx)
		return nil

	case "whoami":
		u := a.users.Session().Current()
		if u == nil {
			return auth.ErrNoSession
		}
		return a.printJSON(u)

	case "profile":
		return a.profile(ctx, args)

	case "add":
		if len(args) != 1 {
			return fmt.Errorf("%w: add <product-id>", errUsage)
		}
		if !a.users.Session().Active() {
			return auth.ErrNoSession
		}
		p, err := a.catalog.Get(args[0])
		if err != nil {
			return err
		}
		if !p.InStock {
			return fmt.Errorf("%w: %s", catalog.ErrOutOfStock, p.ID)
		}
		a.cart.Add(ctx, p)
		return a.printCart()

	case "qty":
		if len(args) != 2 {
			return fmt.Errorf("%w: qty <product-id> <quantity>", errUsage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: quantity must be a number", errUsage)
		}
		a.cart.UpdateQuantity(ctx, args[0], n)
		return a.printCart()

	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("%w: remove <product-id>", errUsage)
		}
		a.cart.Remove(ctx, args[0])
		return a.printCart()

	case "cart":
		return a.printCart()

	case "checkout":
		if len(args) != 1 {
			return fmt.Errorf("%w: checkout <card|cod>", errUsage)
		}
		req := checkout.RequestFromProfile(a.users.Session().Current(), models.PaymentMethod(args[0]))
		order, err := a.checkout.Checkout(ctx, a.cart, req)
		if err != nil {
			return err
		}
		return a.printJSON(order)

	case "my-orders":
		u := a.users.Session().Current()
		if u == nil {
			return auth.ErrNoSession
		}
		cursor := ""
		if len(args) > 0 {
			cursor = args[0]
		}
		page, err := a.ledger.ListForUser(u.ID, cursor, 10)
		if err != nil {
			return err
		}
		return a.printJSON(page)

	case "orders", "confirm", "ship", "deliver", "cancel", "users":
		if !a.users.Session().IsAdmin() {
			return errForbidden
		}
		return a.admin(ctx, cmd, args)

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) admin(ctx context.Context, cmd string, args []string) error {
	if cmd == "orders" {
		if len(args) == 0 {
			return a.printJSON(a.ledger.List(1, 20))
		}
		if page, err := strconv.Atoi(args[0]); err == nil {
			return a.printJSON(a.ledger.List(page, 20))
		}
		list, err := a.ledger.OnDate(args[0])
		if err != nil {
			return err
		}
		return a.printJSON(list)
	}

	if cmd == "users" {
		page := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: users [page]", errUsage)
			}
			page = n
		}
		return a.printJSON(a.users.ListUsers(page, 20))
	}

	if len(args) < 1 {
		return fmt.Errorf("%w: %s <order-id>", errUsage, cmd)
	}
	id := args[0]

	var (
		order models.Order
		err   error
	)
	switch cmd {
	case "confirm":
		order, err = a.ledger.Confirm(ctx, id)
	case "ship":
		if len(args) != 2 {
			return fmt.Errorf("%w: ship <order-id> <YYYY-MM-DD>", errUsage)
		}
		order, err = a.ledger.ShipOn(ctx, id, args[1])
	case "deliver":
		order, err = a.ledger.Deliver(ctx, id)
	case "cancel":
		order, err = a.ledger.Cancel(ctx, id)
	}
	if err != nil {
		return err
	}
	return a.printJSON(order)
}

// profile with no arguments prints the current user; otherwise it takes
// field=value pairs (name, phone, street, city, state, pincode).
func (a *app) profile(ctx context.Context, args []string) error {
	u := a.users.Session().Current()
	if u == nil {
		return auth.ErrNoSession
	}
	if len(args) == 0 {
		return a.printJSON(u)
	}

	var patch models.ProfilePatch
	addr := models.Address{}
	if u.Address != nil {
		addr = *u.Address
	}
	addrTouched := false

	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: profile field=value ...", errUsage)
		}
		value = strings.ReplaceAll(value, "_", " ")
		switch field {
		case "name":
			patch.Name = &value
		case "phone":
			patch.Phone = &value
		case "street":
			addr.Street, addrTouched = value, true
		case "city":
			addr.City, addrTouched = value, true
		case "state":
			addr.State, addrTouched = value, true
		case "pincode":
			addr.Pincode, addrTouched = value, true
		default:
			return fmt.Errorf("%w: unknown profile field %q", errUsage, field)
		}
	}
	if addrTouched {
		patch.Address = &addr
	}

	updated, err := a.users.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	return a.printJSON(updated)
}

// product create|update|delete|reset; fields are given as field=value.
func (a *app) product(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: product <id>|create|update|delete|reset", errUsage)
	}

	switch args[0] {
	case "create", "update", "delete", "reset":
		if !a.users.Session().IsAdmin() {
			return errForbidden
		}
	default:
		p, err := a.catalog.Get(args[0])
		if err != nil {
			return err
		}
		return a.printJSON(p)
	}

	switch args[0] {
	case "reset":
		a.catalog.Reset(ctx)
		return nil

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("%w: product delete <id>", errUsage)
		}
		return a.catalog.Delete(ctx, args[1])

	case "create":
		patch, err := parseProductFields(args[1:])
		if err != nil {
			return err
		}
		in := catalog.ProductInput{OriginalPrice: patch.OriginalPrice, Discount: patch.Discount, InStock: patch.InStock}
		if patch.Name != nil {
			in.Name = *patch.Name
		}
		if patch.Price != nil {
			in.Price = *patch.Price
		}
		if patch.Category != nil {
			in.Category = *patch.Category
		}
		if patch.Image != nil {
			in.Image = *patch.Image
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		p, err := a.catalog.Create(ctx, in)
		if err != nil {
			return err
		}
		return a.printJSON(p)

	default:
		if len(args) < 2 {
			return fmt.Errorf("%w: product update <id> field=value ...", errUsage)
		}
		patch, err := parseProductFields(args[2:])
		if err != nil {
			return err
		}
		p, err := a.catalog.Update(ctx, args[1], patch)
		if err != nil {
			return err
		}
		return a.printJSON(p)
	}
}

func parseProductFields(args []string) (models.ProductPatch, error) {
	var patch models.ProductPatch

	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return patch, fmt.Errorf("%w: expected field=value, got %q", errUsage, arg)
		}
		value = strings.ReplaceAll(value, "_", " ")

		switch field {
		case "name":
			patch.Name = &value
		case "image":
			patch.Image = &value
		case "description":
			patch.Description = &value
		case "category":
			c := models.Category(value)
			patch.Category = &c
		case "price", "originalPrice":
			d, err := decimal.NewFromString(value)
			if err != nil {
				return patch, fmt.Errorf("%w: %s must be a number", errUsage, field)
			}
			if field == "price" {
				patch.Price = &d
			} else {
				patch.OriginalPrice = &d
			}
		case "discount":
			n, err := strconv.Atoi(value)
			if err != nil {
				return patch, fmt.Errorf("%w: discount must be a whole number", errUsage)
			}
			patch.Discount = &n
		case "inStock":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("%w: inStock must be true or false", errUsage)
			}
			patch.InStock = &b
		default:
			return patch, fmt.Errorf("%w: unknown product field %q", errUsage, field)
		}
	}

	return patch, nil
}

func (a *app) printCart() error {
	return a.printJSON(struct {
		Items []models.CartItem `json:"items"`
		Count int               `json:"count"`
		Total decimal.Decimal   `json:"total"`
	}{a.cart.Items(), a.cart.ItemCount(), a.cart.Total()})
}

func (a *app) printJSON(data interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

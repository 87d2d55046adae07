// invoicectl drives the invoice-creation workflow against a running
// shopdesk server: it loads customers, products and the shop context,
// assembles a draft, and submits it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
	"github.com/smallbiznis/shopdesk/internal/invoice/draft"
	"github.com/smallbiznis/shopdesk/internal/logger"
	"github.com/smallbiznis/shopdesk/pkg/client"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type itemFlags []string

func (f *itemFlags) String() string { return strings.Join(*f, ",") }

func (f *itemFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	_ = godotenv.Load()

	var (
		addr     = flag.String("addr", envOr("SHOPDESK_ADDR", "http://localhost:8080"), "shopdesk server base URL")
		shop     = flag.String("shop", "", "shop id to operate under (default: server-resolved)")
		customer = flag.String("customer", "", "customer name or id")
		due      = flag.String("due", "", "due date as YYYY-MM-DD (default: today)")
		payment  = flag.String("payment", "0", "payment received")
		list     = flag.Bool("list", false, "list customers and products, then exit")
		items    itemFlags
	)
	flag.Var(&items, "item", "line item as <product name or id>:<quantity>, repeatable")
	flag.Parse()

	log, err := logger.New("info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, *addr, *shop, *customer, *due, *payment, items, *list); err != nil {
		log.Fatal("invoicectl", zap.Error(err))
	}
}

func run(log *zap.Logger, addr, shop, customer, due, payment string, items itemFlags, list bool) error {
	opts := []client.Option{}
	if shop != "" {
		shopID, err := snowflake.ParseString(shop)
		if err != nil {
			return fmt.Errorf("parse shop id: %w", err)
		}
		opts = append(opts, client.WithShopID(shopID))
	}
	api := client.New(addr, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b := draft.New(log)
	b.Load(ctx, api)

	if list {
		printReferenceData(b)
		return nil
	}

	if customer == "" {
		return fmt.Errorf("-customer is required")
	}
	if len(items) == 0 {
		return fmt.Errorf("at least one -item is required")
	}

	customerID, err := resolveCustomer(b.Customers(), customer)
	if err != nil {
		return err
	}
	if err := b.SetCustomer(customerID); err != nil {
		return err
	}

	// The fresh draft carries one blank row; fill it first, append after.
	for i, spec := range items {
		if i > 0 {
			b.AddItem()
		}
		productID, quantity, err := resolveItem(b.Products(), spec)
		if err != nil {
			return err
		}
		if err := b.SetItemProduct(i, productID); err != nil {
			return err
		}
		if err := b.SetItemQuantity(i, quantity); err != nil {
			return err
		}
	}

	if due != "" {
		dueDate, err := time.Parse(invoicedomain.DueDateLayout, due)
		if err != nil {
			return fmt.Errorf("parse due date: %w", err)
		}
		b.SetDueDate(dueDate)
	}

	paid, err := decimal.NewFromString(payment)
	if err != nil {
		return fmt.Errorf("parse payment: %w", err)
	}
	if err := b.SetPaymentReceived(paid); err != nil {
		return err
	}

	payload, err := b.Payload()
	if err != nil {
		return err
	}
	log.Info("submitting invoice",
		zap.String("customer_id", payload.CustomerID.String()),
		zap.String("total", payload.TotalAmount.String()),
		zap.String("remaining", payload.RemainingAmount.String()),
		zap.String("status", string(payload.Status)),
	)

	if err := b.Submit(ctx, api); err != nil {
		return err
	}

	log.Info("invoice created")
	return nil
}

func resolveCustomer(customers []draft.Customer, ref string) (snowflake.ID, error) {
	if id, err := snowflake.ParseString(ref); err == nil {
		return id, nil
	}
	for _, c := range customers {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("customer %q not found", ref)
}

func resolveItem(products []draft.Product, spec string) (snowflake.ID, int64, error) {
	ref, qtyStr, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("item %q: expected <product>:<quantity>", spec)
	}
	quantity, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("item %q: parse quantity: %w", spec, err)
	}

	if id, err := snowflake.ParseString(ref); err == nil {
		return id, quantity, nil
	}
	for _, p := range products {
		if strings.EqualFold(p.Name, ref) {
			return p.ID, quantity, nil
		}
	}
	return 0, 0, fmt.Errorf("product %q not found", ref)
}

func printReferenceData(b *draft.Builder) {
	fmt.Println("Customers:")
	for _, c := range b.Customers() {
		fmt.Printf("  %s  %s\n", c.ID, c.Name)
	}
	fmt.Println("Products:")
	for _, p := range b.Products() {
		fmt.Printf("  %s  %s  %s\n", p.ID, p.Name, p.Price)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"printify/internal/objectstore"
	"printify/internal/webhook"
	"printify/pkg/printify"
)

type command = func(context.Context, []string) error

func flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return usageError(fs.Name() + ": " + err.Error())
	}
	for _, name := range required {
		if f := fs.Lookup(name); f == nil || f.Value.String() == "" {
			return usageError(fmt.Sprintf("%s: -%s is required", fs.Name(), name))
		}
	}
	return nil
}

// readJSON decodes a request body from a file, rejecting unknown fields.
func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (a *app) done(what string) error {
	return a.out.print(map[string]string{"result": what})
}

func (a *app) shopsCommands() map[string]command {
	return map[string]command{
		"list": func(ctx context.Context, args []string) error {
			shops, err := a.client.Shops.List(ctx)
			if err != nil {
				return err
			}
			return a.out.print(shops)
		},
		"disconnect": func(ctx context.Context, args []string) error {
			fs := flags("shops disconnect")
			id := fs.Int64("id", 0, "shop id")
			if err := parse(fs, args); err != nil {
				return err
			}
			if *id == 0 {
				return usageError("shops disconnect: -id is required")
			}
			if err := a.client.Shops.Disconnect(ctx, printify.Shop{ID: *id}); err != nil {
				return err
			}
			return a.done("disconnected")
		},
	}
}

func (a *app) catalogCommands() map[string]command {
	return map[string]command{
		"blueprints": func(ctx context.Context, args []string) error {
			bps, err := a.client.Catalog.Blueprints(ctx)
			if err != nil {
				return err
			}
			return a.out.print(bps)
		},
		"blueprint": func(ctx context.Context, args []string) error {
			fs := flags("catalog blueprint")
			id := fs.String("id", "", "blueprint id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			bp, err := a.client.Catalog.Blueprint(ctx, *id)
			if err != nil {
				return err
			}
			return a.out.print(bp)
		},
		"providers": func(ctx context.Context, args []string) error {
			fs := flags("catalog providers")
			bp := fs.String("blueprint", "", "only providers of this blueprint")
			if err := parse(fs, args); err != nil {
				return err
			}
			var (
				pps []printify.PrintProvider
				err error
			)
			if *bp != "" {
				pps, err = a.client.Catalog.BlueprintPrintProviders(ctx, *bp)
			} else {
				pps, err = a.client.Catalog.PrintProviders(ctx)
			}
			if err != nil {
				return err
			}
			return a.out.print(pps)
		},
		"provider": func(ctx context.Context, args []string) error {
			fs := flags("catalog provider")
			id := fs.String("id", "", "print provider id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			pp, err := a.client.Catalog.PrintProvider(ctx, *id)
			if err != nil {
				return err
			}
			return a.out.print(pp)
		},
		"variants": func(ctx context.Context, args []string) error {
			fs := flags("catalog variants")
			bp := fs.String("blueprint", "", "blueprint id")
			pp := fs.String("provider", "", "print provider id")
			if err := parse(fs, args, "blueprint", "provider"); err != nil {
				return err
			}
			vs, err := a.client.Catalog.Variants(ctx, *bp, *pp)
			if err != nil {
				return err
			}
			return a.out.print(vs)
		},
		"shipping": func(ctx context.Context, args []string) error {
			fs := flags("catalog shipping")
			bp := fs.String("blueprint", "", "blueprint id")
			pp := fs.String("provider", "", "print provider id")
			if err := parse(fs, args, "blueprint", "provider"); err != nil {
				return err
			}
			info, err := a.client.Catalog.Shipping(ctx, *bp, *pp)
			if err != nil {
				return err
			}
			return a.out.print(info)
		},
	}
}

func (a *app) productsCommands() map[string]command {
	idOnly := func(name string, fn func(ctx context.Context, id string) error) command {
		return func(ctx context.Context, args []string) error {
			fs := flags("products " + name)
			id := fs.String("id", "", "product id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			return fn(ctx, *id)
		}
	}

	return map[string]command{
		"list": func(ctx context.Context, args []string) error {
			fs := flags("products list")
			pages := fs.Int("pages", 1, "maximum number of pages to read")
			if err := parse(fs, args); err != nil {
				return err
			}
			products, err := a.client.Products.List(ctx, "", *pages)
			if err != nil {
				return err
			}
			return a.out.print(products)
		},
		"get": idOnly("get", func(ctx context.Context, id string) error {
			p, err := a.client.Products.Get(ctx, "", id)
			if err != nil {
				return err
			}
			return a.out.print(p)
		}),
		"create": func(ctx context.Context, args []string) error {
			fs := flags("products create")
			file := fs.String("file", "", "JSON file with the product")
			if err := parse(fs, args, "file"); err != nil {
				return err
			}
			var req printify.CreateProduct
			if err := readJSON(*file, &req); err != nil {
				return err
			}
			p, err := a.client.Products.Create(ctx, "", req)
			if err != nil {
				return err
			}
			return a.out.print(p)
		},
		"update": func(ctx context.Context, args []string) error {
			fs := flags("products update")
			id := fs.String("id", "", "product id")
			file := fs.String("file", "", "JSON file with the fields to change")
			if err := parse(fs, args, "id", "file"); err != nil {
				return err
			}
			var req printify.UpdateProduct
			if err := readJSON(*file, &req); err != nil {
				return err
			}
			p, err := a.client.Products.Update(ctx, "", *id, req)
			if err != nil {
				return err
			}
			return a.out.print(p)
		},
		"delete": idOnly("delete", func(ctx context.Context, id string) error {
			if err := a.client.Products.Delete(ctx, "", id); err != nil {
				return err
			}
			return a.done("deleted")
		}),
		"publish": idOnly("publish", func(ctx context.Context, id string) error {
			if err := a.client.Products.Publish(ctx, "", id, printify.DefaultPublish()); err != nil {
				return err
			}
			return a.done("publish requested")
		}),
		"publishing-succeeded": func(ctx context.Context, args []string) error {
			fs := flags("products publishing-succeeded")
			id := fs.String("id", "", "product id")
			extID := fs.String("external-id", "", "storefront listing id")
			handle := fs.String("handle", "", "storefront listing url")
			if err := parse(fs, args, "id", "external-id", "handle"); err != nil {
				return err
			}
			err := a.client.Products.PublishingSucceeded(ctx, "", *id, printify.PublishingSucceeded{
				External: printify.PublishingSucceededExternal{ID: *extID, Handle: *handle},
			})
			if err != nil {
				return err
			}
			return a.done("marked published")
		},
		"publishing-failed": func(ctx context.Context, args []string) error {
			fs := flags("products publishing-failed")
			id := fs.String("id", "", "product id")
			reason := fs.String("reason", "", "why publishing failed")
			if err := parse(fs, args, "id", "reason"); err != nil {
				return err
			}
			if err := a.client.Products.PublishingFailed(ctx, "", *id, *reason); err != nil {
				return err
			}
			return a.done("marked failed")
		},
		"unpublish": idOnly("unpublish", func(ctx context.Context, id string) error {
			if err := a.client.Products.Unpublish(ctx, "", id); err != nil {
				return err
			}
			return a.done("unpublished")
		}),
	}
}

// orderRequest decodes an order body of the given kind.
func orderRequest(kind, path string) (printify.CreateOrderRequest, error) {
	var req printify.CreateOrderRequest
	switch kind {
	case "existing":
		var r printify.CreateOrderExistingProduct
		if err := readJSON(path, &r); err != nil {
			return nil, err
		}
		req = r
	case "simple":
		var r printify.CreateOrderSimpleImageProcessing
		if err := readJSON(path, &r); err != nil {
			return nil, err
		}
		req = r
	case "advanced":
		var r printify.CreateOrderAdvancedImageProcessing
		if err := readJSON(path, &r); err != nil {
			return nil, err
		}
		req = r
	case "print-details":
		var r printify.CreateOrderPrintDetails
		if err := readJSON(path, &r); err != nil {
			return nil, err
		}
		req = r
	case "sku":
		var r printify.CreateOrderSKU
		if err := readJSON(path, &r); err != nil {
			return nil, err
		}
		req = r
	default:
		return nil, usageError("orders create: -kind must be existing, simple, advanced, print-details or sku")
	}
	return req, nil
}

func (a *app) ordersCommands() map[string]command {
	idOnly := func(name string, fn func(ctx context.Context, id string) error) command {
		return func(ctx context.Context, args []string) error {
			fs := flags("orders " + name)
			id := fs.String("id", "", "order id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			return fn(ctx, *id)
		}
	}

	return map[string]command{
		"list": func(ctx context.Context, args []string) error {
			fs := flags("orders list")
			pages := fs.Int("pages", 1, "maximum number of pages to read")
			summary := fs.Bool("summary", false, "print a table with totals instead of full records")
			if err := parse(fs, args); err != nil {
				return err
			}
			orders, err := a.client.Orders.List(ctx, "", *pages)
			if err != nil {
				return err
			}
			if *summary {
				return a.out.orderSummary(orders)
			}
			return a.out.print(orders)
		},
		"get": idOnly("get", func(ctx context.Context, id string) error {
			o, err := a.client.Orders.Get(ctx, "", id)
			if err != nil {
				return err
			}
			return a.out.print(o)
		}),
		"create": func(ctx context.Context, args []string) error {
			fs := flags("orders create")
			kind := fs.String("kind", "existing", "existing, simple, advanced, print-details or sku")
			file := fs.String("file", "", "JSON file with the order")
			if err := parse(fs, args, "file"); err != nil {
				return err
			}
			req, err := orderRequest(*kind, *file)
			if err != nil {
				return err
			}
			id, err := a.client.Orders.Create(ctx, "", req)
			if err != nil {
				return err
			}
			return a.out.print(map[string]string{"id": id})
		},
		"send": idOnly("send", func(ctx context.Context, id string) error {
			o, err := a.client.Orders.SendToProduction(ctx, "", id)
			if err != nil {
				return err
			}
			return a.out.print(o)
		}),
		"cancel": idOnly("cancel", func(ctx context.Context, id string) error {
			o, err := a.client.Orders.Cancel(ctx, "", id)
			if err != nil {
				return err
			}
			return a.out.print(o)
		}),
		"shipping": func(ctx context.Context, args []string) error {
			fs := flags("orders shipping")
			file := fs.String("file", "", "JSON file with line_items and address_to")
			if err := parse(fs, args, "file"); err != nil {
				return err
			}
			var req printify.CreateShippingEstimate
			if err := readJSON(*file, &req); err != nil {
				return err
			}
			cost, err := a.client.Orders.CalculateShipping(ctx, "", req)
			if err != nil {
				return err
			}
			return a.out.print(map[string]string{
				"standard": printify.Cents(cost.Standard).StringFixed(2),
				"express":  printify.Cents(cost.Express).StringFixed(2),
			})
		},
	}
}

func (a *app) uploadsCommands() map[string]command {
	return map[string]command{
		"list": func(ctx context.Context, args []string) error {
			fs := flags("uploads list")
			pages := fs.Int("pages", 1, "maximum number of pages to read")
			if err := parse(fs, args); err != nil {
				return err
			}
			uploads, err := a.client.Artwork.List(ctx, *pages)
			if err != nil {
				return err
			}
			return a.out.print(uploads)
		},
		"get": func(ctx context.Context, args []string) error {
			fs := flags("uploads get")
			id := fs.String("id", "", "upload id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			up, err := a.client.Artwork.Get(ctx, *id)
			if err != nil {
				return err
			}
			return a.out.print(up)
		},
		"upload": func(ctx context.Context, args []string) error {
			fs := flags("uploads upload")
			file := fs.String("file", "", "local image to upload")
			url := fs.String("url", "", "public image url, or s3://bucket/key to presign")
			if err := parse(fs, args); err != nil {
				return err
			}
			var (
				up  *printify.Artwork
				err error
			)
			if objectstore.IsURI(*url) {
				if *file != "" {
					return usageError("uploads upload: use -file or -url, not both")
				}
				up, err = a.uploadFromBucket(ctx, *url)
			} else {
				up, err = a.client.Artwork.Upload(ctx, *file, *url)
			}
			if err != nil {
				return err
			}
			return a.out.print(up)
		},
		"archive": func(ctx context.Context, args []string) error {
			fs := flags("uploads archive")
			id := fs.String("id", "", "upload id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			if err := a.client.Artwork.Archive(ctx, *id); err != nil {
				return err
			}
			return a.done("archived")
		},
	}
}

func (a *app) uploadFromBucket(ctx context.Context, uri string) (*printify.Artwork, error) {
	obj, err := objectstore.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	store, err := objectstore.New(a.cfg.S3)
	if err != nil {
		return nil, err
	}
	signed, err := store.PresignGet(ctx, obj)
	if err != nil {
		return nil, err
	}
	return a.client.Artwork.UploadFromURL(ctx, obj.FileName(), signed)
}

func (a *app) webhooksCommands() map[string]command {
	return map[string]command{
		"list": func(ctx context.Context, args []string) error {
			hooks, err := a.client.Webhooks.List(ctx, "")
			if err != nil {
				return err
			}
			return a.out.print(hooks)
		},
		"create": func(ctx context.Context, args []string) error {
			fs := flags("webhooks create")
			url := fs.String("url", "", "delivery url")
			topic := fs.String("topic", "", "event topic, e.g. order:created")
			secret := fs.String("secret", a.cfg.Printify.WebhookSecret, "signing secret")
			if err := parse(fs, args, "url", "topic"); err != nil {
				return err
			}
			req := printify.CreateWebhook{URL: *url, Topic: webhook.NormalizeTopic(*topic)}
			if *secret != "" {
				req.Secret = secret
			}
			w, err := a.client.Webhooks.Create(ctx, "", req)
			if err != nil {
				return err
			}
			return a.out.print(w)
		},
		"update": func(ctx context.Context, args []string) error {
			fs := flags("webhooks update")
			id := fs.String("id", "", "webhook id")
			url := fs.String("url", "", "new delivery url")
			topic := fs.String("topic", "", "new topic")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			var req printify.UpdateWebhook
			if *url != "" {
				req.URL = url
			}
			if *topic != "" {
				t := webhook.NormalizeTopic(*topic)
				req.Topic = &t
			}
			if req.URL == nil && req.Topic == nil {
				return usageError("webhooks update: nothing to change; pass -url or -topic")
			}
			w, err := a.client.Webhooks.Update(ctx, "", *id, req)
			if err != nil {
				return err
			}
			return a.out.print(w)
		},
		"delete": func(ctx context.Context, args []string) error {
			fs := flags("webhooks delete")
			id := fs.String("id", "", "webhook id")
			if err := parse(fs, args, "id"); err != nil {
				return err
			}
			if err := a.client.Webhooks.Delete(ctx, "", *id); err != nil {
				return err
			}
			return a.done("deleted")
		},
		"ensure": func(ctx context.Context, args []string) error {
			topics := a.cfg.Printify.WebhookTopics
			if len(topics) == 0 {
				topics = printify.Topics()
			}
			created, err := webhook.EnsureSubscriptions(ctx, a.client.Webhooks, a.logger, "",
				a.cfg.PublicBaseURL, a.cfg.Printify.WebhookSecret, topics)
			if err != nil {
				return err
			}
			return a.out.print(created)
		},
	}
}

func (a *app) token() error {
	info, err := printify.ParseToken(a.cfg.Printify.APIToken)
	if err != nil {
		return err
	}
	out := map[string]any{
		"subject": info.Subject,
		"scopes":  info.Scopes,
		"expired": info.Expired(time.Now()),
	}
	if !info.IssuedAt.IsZero() {
		out["issued_at"] = info.IssuedAt.UTC().Format(time.RFC3339)
	}
	if !info.ExpiresAt.IsZero() {
		out["expires_at"] = info.ExpiresAt.UTC().Format(time.RFC3339)
		out["expires_in_days"] = strconv.Itoa(int(time.Until(info.ExpiresAt).Hours() / 24))
	}
	return a.out.print(out)
}

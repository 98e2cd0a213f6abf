package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gomarketplace/internal/domain/model"
	repo "gomarketplace/internal/repository"
	"gomarketplace/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session は1回のコマンド実行で使う保存先。
type session struct {
	storage repo.KeyValueStorage
	key     string
	logger  *zap.Logger
	cleanup func()
}

type opener func(ctx context.Context) (*session, error)

func newRootCmd(open opener) *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and edit the persisted GoMarketplace cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", outputTable, "output format: table|json|yaml")

	// カートを開いて fn を実行し、書き込みを待ってから表示する
	withCart := func(cmd *cobra.Command, fn func(ctx context.Context, cart *usecase.CartUsecase) error) error {
		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		if s.cleanup != nil {
			defer s.cleanup()
		}

		cart := usecase.NewCartUsecase(ctx, s.storage, usecase.CartOptions{Key: s.key, Logger: s.logger})
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = cart.Close(closeCtx)
		}()

		if err := fn(ctx, cart); err != nil {
			return err
		}
		if err := cart.Flush(ctx); err != nil {
			return err
		}

		summary, err := cart.Summary(ctx)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, summary)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, func(ctx context.Context, cart *usecase.CartUsecase) error {
				<-cart.Ready()
				return nil
			})
		},
	}

	var in struct {
		id       string
		title    string
		imageURL string
		price    string
	}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product (or one more unit of it)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(in.price)
			if err != nil {
				return fmt.Errorf("invalid --price: %w", err)
			}
			return withCart(cmd, func(ctx context.Context, cart *usecase.CartUsecase) error {
				_, err := cart.AddToCart(ctx, model.ProductInput{
					ID:       in.id,
					Title:    in.title,
					ImageURL: in.imageURL,
					Price:    price,
				})
				return err
			})
		},
	}
	addCmd.Flags().StringVar(&in.id, "id", "", "product id")
	addCmd.Flags().StringVar(&in.title, "title", "", "product title")
	addCmd.Flags().StringVar(&in.imageURL, "image-url", "", "product image url")
	addCmd.Flags().StringVar(&in.price, "price", "0", "unit price")
	_ = addCmd.MarkFlagRequired("id")

	incCmd := &cobra.Command{
		Use:   "inc ID",
		Short: "Increase the quantity of a product by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, func(ctx context.Context, cart *usecase.CartUsecase) error {
				_, err := cart.Increment(ctx, args[0])
				return err
			})
		},
	}

	decCmd := &cobra.Command{
		Use:   "dec ID",
		Short: "Decrease the quantity of a product by one, removing it at zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, func(ctx context.Context, cart *usecase.CartUsecase) error {
				_, err := cart.Decrement(ctx, args[0])
				return err
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if s.cleanup != nil {
				defer s.cleanup()
			}
			if err := s.storage.Delete(cmd.Context(), s.key); err != nil && !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}

	root.AddCommand(listCmd, addCmd, incCmd, decCmd, clearCmd)
	return root
}

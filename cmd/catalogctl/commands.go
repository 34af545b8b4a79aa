package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayush/favorites-api/internal/auth"
	"github.com/ayush/favorites-api/internal/config"
	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/store"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Manage the favorites catalog database and images",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.PostgresDSN, "dsn", cfg.PostgresDSN, "PostgreSQL connection string")

	root.AddCommand(newMigrateCmd(cfg), newSeedCmd(cfg), newImageCmd(cfg))
	return root
}

func openStore(cmd *cobra.Command, cfg *config.Config) (*store.PostgresStore, func(), error) {
	pool, err := store.NewPool(cmd.Context(), config.NormalizeDSN(cfg.PostgresDSN))
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users, people, planets and favorites tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeFn, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			logging.Info(cmd.Context()).Msg("schema up to date")
			return nil
		},
	}
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	var users []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo people, planets and users into empty tables",
		Long: "Seed fills the people and planets tables when they are empty and creates\n" +
			"each --user given as email:password, hashing the password with bcrypt.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedUsers, err := parseSeedUsers(users)
			if err != nil {
				return err
			}

			st, closeFn, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			sum, err := st.Seed(cmd.Context(), seedUsers)
			if err != nil {
				return err
			}
			logging.Info(cmd.Context()).
				Int("users", sum.Users).
				Int("people", sum.People).
				Int("planets", sum.Planets).
				Msg("seed complete")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&users, "user", []string{"demo@example.com:demo"}, "user to create as email:password (repeatable)")
	return cmd
}

// parseSeedUsers turns email:password pairs into SeedUsers with hashed passwords.
func parseSeedUsers(pairs []string) ([]store.SeedUser, error) {
	out := make([]store.SeedUser, 0, len(pairs))
	for _, pair := range pairs {
		email, password, ok := strings.Cut(pair, ":")
		email = strings.TrimSpace(strings.ToLower(email))
		if !ok || email == "" || password == "" {
			return nil, fmt.Errorf("invalid --user %q: want email:password", pair)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", email, err)
		}
		out = append(out, store.SeedUser{Email: email, PasswordHash: hash})
	}
	return out, nil
}

func newImageCmd(cfg *config.Config) *cobra.Command {
	image := &cobra.Command{
		Use:   "image",
		Short: "Manage people and planet images in object storage",
	}

	var (
		kind string
		id   int64
		file string
	)
	put := &cobra.Command{
		Use:   "put",
		Short: "Upload an image for a person or planet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			if err := (models.FavoriteTarget{Kind: k, ID: id}).Validate(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			images, err := store.NewImageStore(cmd.Context(), cfg.MinioEndpoint, cfg.MinioAccessKey,
				cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
			if err != nil {
				return err
			}
			key := store.ImageKey(k, id)
			if err := images.Upload(cmd.Context(), key, data, http.DetectContentType(data)); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			logging.Info(cmd.Context()).Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
			return nil
		},
	}
	put.Flags().StringVar(&kind, "kind", "", "people or planets")
	put.Flags().Int64Var(&id, "id", 0, "person or planet id")
	put.Flags().StringVar(&file, "file", "", "path to the image file")
	_ = put.MarkFlagRequired("kind")
	_ = put.MarkFlagRequired("id")
	_ = put.MarkFlagRequired("file")

	image.AddCommand(put)
	return image
}

func parseKind(s string) (models.Kind, error) {
	switch strings.ToLower(s) {
	case "people", "person":
		return models.KindPeople, nil
	case "planet", "planets":
		return models.KindPlanet, nil
	}
	return "", fmt.Errorf("unknown kind %q: want people or planets", s)
}

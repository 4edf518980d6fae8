// Package main provides a CLI tool for seeding the catalogue: the four books,
// the sixteen centres and the administrator account.
package main

import (
	"context"
	"fmt"
	"os"

	"centrebooks/internal/app"
	"centrebooks/internal/config"
	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/pkg/logger"
)

const defaultAdminPassword = "Admin123!"

type book struct {
	code  string
	name  string
	pages int
	price int64
}

var books = []book{
	{code: "COMPAGNON", name: "Compagnon", pages: 180, price: 1500},
	{code: "ESSENTIEL", name: "Essentiel", pages: 200, price: 2000},
	{code: "VIATIQUE", name: "Viatique", pages: 160, price: 1000},
	{code: "ACTIVITES", name: "Activités", pages: 120, price: 800},
}

var centres = []string{
	"YAMOUSSOKRO", "OUSTAZ KONATE", "DIENG AISSATA", "TANTA HIDAYA",
	"port bouet", "IQRA", "SELMER", "kor",
	"daloa", "OUSTAZ DALOA", "AVICENNE", "MARCORY",
	"BOUAKE 1", "ABOBO", "mpouto", "aeroport",
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Service:     "centrebooks-seed",
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	services := app.NewServices(storage, cfg)
	seeder := security.Unrestricted("seed")

	if cfg.Bootstrap.AdminPassword == "" {
		cfg.Bootstrap.AdminPassword = defaultAdminPassword
		log.Warnw("BOOTSTRAP_ADMIN_PASSWORD not set, using the default password", "username", cfg.Bootstrap.AdminUsername)
	}
	if err := services.BootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	created := 0
	for _, b := range books {
		it := item.NewItem(b.code, b.name, b.pages, types.NewMoneyFromInt(b.price))
		ok, err := skipDuplicate(services.Items.Create(ctx, seeder, it))
		if err != nil {
			log.Fatalw("failed to seed item", "code", b.code, "error", err)
		}
		if ok {
			created++
		}
	}
	log.Infow("items seeded", "created", created, "total", len(books))

	created = 0
	for _, name := range centres {
		ok, err := skipDuplicate(services.Centres.Create(ctx, seeder, centre.NewCentre(name, "", "")))
		if err != nil {
			log.Fatalw("failed to seed centre", "name", name, "error", err)
		}
		if ok {
			created++
		}
	}
	log.Infow("centres seeded", "created", created, "total", len(centres))

	log.Info("seeding completed successfully")
}

// skipDuplicate reports whether a row was created; an existing row is not an error.
func skipDuplicate(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if apperror.HasCode(err, apperror.CodeDuplicate) {
		return false, nil
	}
	return false, err
}

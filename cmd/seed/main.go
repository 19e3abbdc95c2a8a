// Seed inserts a starter product catalog and a few demo clients so a fresh
// install has something to show on first run. Safe to re-run: existing rows
// are left alone.
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/casadulce/api/internal/config"
)

type seedProduct struct {
	name  string
	price string
}

type seedClient struct {
	name  string
	phone string
	email string
}

var products = []seedProduct{
	{"Torta de Chocolate", "28000"},
	{"Torta Tres Leches", "25000"},
	{"Kuchen de Nuez", "18000"},
	{"Pie de Limón", "15000"},
	{"Cheesecake Frutos Rojos", "22000"},
	{"Docena de Alfajores", "9000"},
	{"Docena de Empanaditas Dulces", "7500"},
}

var clients = []seedClient{
	{"María González", "+56 9 1234 5678", "maria.gonzalez@example.com"},
	{"Pedro Araya", "+56 9 8765 4321", "pedro.araya@example.com"},
	{"Carla Fuentes", "", "carla.fuentes@example.com"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	var nProducts, nClients int

	for _, p := range products {
		tag, err := pool.Exec(ctx, `
			INSERT INTO products (name, price)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			p.name, p.price)
		if err != nil {
			log.Fatalf("seed product %q: %v", p.name, err)
		}
		nProducts += int(tag.RowsAffected())
	}

	for _, c := range clients {
		phone := pgtypeText(c.phone)
		email := pgtypeText(c.email)
		tag, err := pool.Exec(ctx, `
			INSERT INTO clients (name, phone, email)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING`,
			c.name, phone, email)
		if err != nil {
			log.Fatalf("seed client %q: %v", c.name, err)
		}
		nClients += int(tag.RowsAffected())
	}

	log.Printf("Seed complete: %d products, %d clients inserted", nProducts, nClients)
}

func pgtypeText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

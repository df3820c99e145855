// Package main provides a tool to seed the database with demo contacts.
//
// It creates a set of tags across categories and a batch of tagged people,
// with randomized solicitation history so the filter thresholds have
// something to bite on.
//
// Usage:
//
//	DB_PATH=~/rolo/rolo.db go run ./cmd/seed
//	DB_PATH=~/rolo/rolo.db go run ./cmd/seed --solicit  # Also record solicitations
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	"github.com/roloapp/rolo-server/internal/service"
	"github.com/roloapp/rolo-server/internal/store/sqlite"
)

var solicit = flag.Bool("solicit", false, "Record randomized solicitation history for seeded people")

type seedTag struct {
	name     string
	category domain.Category
	priority bool
}

type seedPerson struct {
	firstName string
	lastName  string
	tags      []string
}

var tags = []seedTag{
	{"Paris", domain.CategoryCity, true},
	{"Lyon", domain.CategoryCity, false},
	{"Berlin", domain.CategoryCity, false},
	{"Fintech", domain.CategoryIndustry, false},
	{"Healthcare", domain.CategoryIndustry, false},
	{"Engineer", domain.CategoryRole, false},
	{"Designer", domain.CategoryRole, false},
	{"Founder", domain.CategoryRole, true},
	{"Acme", domain.CategoryCompany, false},
	{"Startup", domain.CategoryCompanySize, false},
	{"Client", domain.CategoryRelationType, true},
	{"Go", domain.CategorySkills, false},
	{"Rust", domain.CategorySkills, false},
	{"Climbing", domain.CategoryInterest, false},
	{"Active", domain.CategoryStatus, false},
	{"Conference", domain.CategorySource, false},
	{"Newsletter", domain.CategoryUncategorized, false},
}

var people = []seedPerson{
	{"Ada", "Lovelace", []string{"Paris", "Engineer", "Go", "Client"}},
	{"Grace", "Hopper", []string{"Paris", "Engineer", "Active"}},
	{"Alan", "Turing", []string{"Lyon", "Engineer", "Rust"}},
	{"Margaret", "Hamilton", []string{"Berlin", "Founder", "Fintech"}},
	{"Katherine", "Johnson", []string{"Lyon", "Designer", "Climbing"}},
	{"Linus", "Benedict", []string{"Berlin", "Engineer", "Go", "Conference"}},
	{"Barbara", "Liskov", []string{"Paris", "Founder", "Healthcare", "Client"}},
	{"Donald", "Knuth", []string{"Lyon", "Engineer", "Newsletter"}},
	{"Frances", "Allen", []string{"Berlin", "Designer", "Acme", "Startup"}},
	{"Edsger", "Dijkstra", []string{"Paris", "Engineer", "Active"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/rolo/rolo.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(dbPath, quiet)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	tagService := service.NewTagService(st, quiet)
	personService := service.NewPersonService(st, tagService, quiet)

	created := 0
	for _, t := range tags {
		if _, err := tagService.CreateTag(ctx, t.name, t.category, t.priority); err != nil {
			// Re-running the seeder against an existing database is fine.
			fmt.Printf("  Skipping tag %q: %v\n", t.name, err)
			continue
		}
		created++
	}
	fmt.Printf("Created %d tags\n", created)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	added := 0
	for _, p := range people {
		person, err := personService.AddPerson(ctx, p.firstName, p.lastName, p.tags)
		if err != nil {
			fmt.Printf("  Skipping person %s %s: %v\n", p.firstName, p.lastName, err)
			continue
		}
		added++

		if !*solicit {
			continue
		}

		// Spread 0-4 solicitations over the past 90 days so threshold
		// filters have a mix of fresh and stale contacts to work with.
		for i := rng.Intn(5); i > 0; i-- {
			at := time.Now().AddDate(0, 0, -rng.Intn(90))
			if err := st.IncrementSolicitation(ctx, person.ID, at); err != nil {
				log.Printf("Failed to record solicitation for %s: %v", person.ID, err)
				break
			}
		}
	}
	fmt.Printf("Added %d people\n", added)

	fmt.Println("Done")
}

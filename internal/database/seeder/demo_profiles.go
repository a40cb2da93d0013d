package seeder

import (
	"context"
	"errors"
	"fmt"

	"linkup/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password123"

var demoProfiles = []user.Profile{
	{
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Headline: "Analyst of engines",
		Location: "London",
		Skills:   []string{"Mathematics", "Programming"},
		Education: []user.Education{
			{School: "Home tutoring", FieldOfStudy: "Mathematics", StartYear: 1830, EndYear: 1835},
		},
	},
	{
		Name:     "Grace Hopper",
		Username: "grace",
		Email:    "grace@example.com",
		Headline: "Compiler pioneer",
		Location: "New York",
		Skills:   []string{"COBOL", "Compilers"},
		Experience: []user.Experience{
			{Title: "Rear Admiral", Company: "US Navy", Description: "Led the COBOL effort"},
		},
	},
	{
		Name:     "Alan Turing",
		Username: "alan",
		Email:    "alan@example.com",
		Headline: "Computability",
		Location: "Manchester",
		Skills:   []string{"Cryptanalysis", "Logic"},
	},
	{
		Name:     "Edsger Dijkstra",
		Username: "edsger",
		Email:    "edsger@example.com",
		Headline: "Structured programming",
		Location: "Austin",
		Skills:   []string{"Algorithms"},
	},
	{
		Name:     "Barbara Liskov",
		Username: "barbara",
		Email:    "barbara@example.com",
		Headline: "Data abstraction",
		Location: "Cambridge",
		Skills:   []string{"Distributed systems", "Type theory"},
	},
}

// demoConnections are index pairs into demoProfiles.
var demoConnections = [][2]int{{0, 1}, {1, 2}}

// DemoProfiles creates a handful of accounts sharing one password and a few
// mutual connections. Existing accounts are left alone.
type DemoProfiles struct {
	Created []user.Profile
}

func (s *DemoProfiles) Name() string { return "demo_profiles" }

func (s *DemoProfiles) Run(ctx context.Context, users user.Repository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.Created = make([]user.Profile, 0, len(demoProfiles))
	ids := make([]string, len(demoProfiles))
	for i, p := range demoProfiles {
		created, err := users.Create(ctx, p, string(hash))
		if errors.Is(err, user.ErrAlreadyExists) {
			existing, ferr := users.FindByUsername(ctx, p.Username)
			if ferr != nil {
				return fmt.Errorf("load %s: %w", p.Username, ferr)
			}
			ids[i] = existing.ID
			s.Created = append(s.Created, existing)
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", p.Username, err)
		}
		ids[i] = created.ID
		s.Created = append(s.Created, created)
	}

	conn, ok := users.(Connector)
	if !ok {
		return nil
	}
	for _, pair := range demoConnections {
		if s.Created[pair[0]].IsConnectedTo(ids[pair[1]]) {
			continue
		}
		if err := conn.AddConnection(ctx, ids[pair[0]], ids[pair[1]]); err != nil {
			return fmt.Errorf("connect %s-%s: %w", demoProfiles[pair[0]].Username, demoProfiles[pair[1]].Username, err)
		}
	}
	return nil
}

// Command seed provisions the database schema and, optionally, a test
// student. Student creation lives here because the service itself never
// creates students; they arrive from enrollment tooling.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"student_intervention_service/internal/domain/student"
	"student_intervention_service/internal/infra/config"
	idb "student_intervention_service/internal/infra/database"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply schema migrations")
	name := flag.String("name", "", "create a student with this display name")
	email := flag.String("email", "", "optional email for the created student")
	flag.Parse()

	seedLogger := log.New(os.Stdout, "SEED: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		seedLogger.Fatalf("could not load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		seedLogger.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()

	if *migrate {
		if err := idb.Migrate(ctx, db); err != nil {
			seedLogger.Fatalf("migration failed: %v", err)
		}
		seedLogger.Println("schema is up to date")
	}

	if *name != "" {
		repo := idb.NewPostgresStudentRepository(db)
		s := &student.Student{
			Name:   *name,
			Status: student.StatusOnTrack,
		}
		if *email != "" {
			s.Email = sql.NullString{String: *email, Valid: true}
		}
		if err := repo.Create(ctx, s); err != nil {
			seedLogger.Fatalf("could not create student: %v", err)
		}
		fmt.Printf("created student %s (%s)\n", s.ID, s.Name)
	}
}

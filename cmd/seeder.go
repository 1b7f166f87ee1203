package cmd

import (
	"fmt"
	"log"

	authpg "github.com/edustride/crm-backend/internal/auth/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"sessions", "module_permissions", "leads", "cases", "students", "vouchers", "leaves", "users", "branches", "universities"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedBranches(db)
		seedUsers(db, cfg.Security.BCryptCost)

		// Opportunistic maintenance: drop expired session rows.
		if err := authpg.NewRepository(db).SweepExpiredSessions(); err != nil {
			log.Printf("session sweep failed: %v", err)
		}

		fmt.Println("Seeding complete")
	},
}

func seedBranches(db *gorm.DB) {
	branches := []struct {
		Code, Name, City, Country string
	}{
		{"dhk", "Dhaka Head Office", "Dhaka", "Bangladesh"},
		{"ctg", "Chattogram Branch", "Chattogram", "Bangladesh"},
		{"syl", "Sylhet Branch", "Sylhet", "Bangladesh"},
	}

	for _, b := range branches {
		var exists int
		row := db.Raw("SELECT 1 FROM branches WHERE code = ?", b.Code).Row()
		if err := row.Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec(
			"INSERT INTO branches (code, name, city, country, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
			b.Code, b.Name, b.City, b.Country,
		).Error; err != nil {
			log.Fatalf("failed to insert branch %s: %v", b.Code, err)
		}
		fmt.Println("Seeded branch:", b.Code)
	}
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []struct {
		Email, Name, Role, Branch string
	}{
		{"root@edustride.local", "Root", "super_admin", ""},
		{"admin@edustride.local", "Head Admin", "admin", "dhk"},
		{"director.dhk@edustride.local", "Dhaka Director", "branch_director", "dhk"},
		{"counselor.dhk@edustride.local", "Dhaka Counselor", "counselor", "dhk"},
		{"reception.ctg@edustride.local", "Chattogram Reception", "receptionist", "ctg"},
	}

	for _, u := range users {
		var id int64
		row := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row()
		if err := row.Scan(&id); err != nil {
			row = db.Raw(
				`INSERT INTO users (email, password_hash, name, role, branch, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, 'active', now(), now()) RETURNING id`,
				u.Email, string(hash), u.Name, u.Role, u.Branch,
			).Row()
			if err := row.Scan(&id); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}
		seedPermissions(db, id, u.Role)
	}
}

// seedPermissions grants a sensible default matrix per role. super_admin rows
// are skipped entirely; top rank bypasses the matrix.
func seedPermissions(db *gorm.DB, userID int64, role string) {
	type grant struct {
		Module string
		Level  string
	}

	var grants []grant
	switch role {
	case "super_admin":
		return
	case "admin", "branch_director":
		for _, m := range []string{"leads", "cases", "students", "universities", "vouchers", "leaves", "branches", "users"} {
			grants = append(grants, grant{m, "crud"})
		}
	case "counselor":
		grants = []grant{
			{"leads", "crud"}, {"cases", "crud"}, {"students", "crud"},
			{"universities", "view"}, {"leaves", "crud"},
		}
	case "receptionist":
		grants = []grant{
			{"leads", "crud"}, {"students", "view"}, {"leaves", "crud"},
		}
	}

	for _, g := range grants {
		var exists int
		row := db.Raw("SELECT 1 FROM module_permissions WHERE user_id = ? AND module = ?", userID, g.Module).Row()
		if err := row.Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec(
			"INSERT INTO module_permissions (user_id, module, access_level) VALUES (?, ?, ?)",
			userID, g.Module, g.Level,
		).Error; err != nil {
			log.Fatalf("failed to insert permission %s/%s: %v", role, g.Module, err)
		}
	}
}

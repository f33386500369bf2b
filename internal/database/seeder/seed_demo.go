package seeder

import (
	"context"

	"jobhub/internal/database"
	"jobhub/internal/domain/company"
	"jobhub/internal/domain/job"
	"jobhub/internal/domain/user"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const demoRecruiterEmail = "recruiter@jobhub.local"

// DemoSeeder creates a recruiter with a verified company and a few open jobs
// for local development. It is a no-op once the recruiter exists.
type DemoSeeder struct {
	Password string
}

func (DemoSeeder) Name() string { return "demo" }

func (s DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "company_id", "title", "job_type", "level", "is_active"); err != nil {
		return err
	}

	var existing uuid.UUID
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, demoRecruiterEmail).Scan(&existing)
	if err == nil {
		return nil
	}
	if !database.IsNoRows(err) {
		return err
	}

	password := s.Password
	if password == "" {
		password = "recruiter123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash demo password")
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		recruiterID := uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
			recruiterID, demoRecruiterEmail, string(hash), string(user.RoleRecruiter),
		); err != nil {
			return errors.Wrap(err, "insert demo recruiter")
		}

		companyID := uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (id, recruiter_id, name, industry, city, status, verified, verified_at, verification_notes)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, now(), 'demo')`,
			companyID, recruiterID, "PT Kerja Nyata", "Manufaktur", "Bandung", string(company.StatusVerified),
		); err != nil {
			return errors.Wrap(err, "insert demo company")
		}

		for _, it := range demoJobs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, company_id, title, description, location, job_type, level)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New(), companyID, it.Title, it.Description, it.Location, string(it.Type), string(it.Level),
			); err != nil {
				return errors.Wrapf(err, "insert demo job %s", it.Title)
			}
		}
		return nil
	})
}

var demoJobs = []struct {
	Title       string
	Description string
	Location    string
	Type        job.Type
	Level       job.Level
}{
	{Title: "Staf Administrasi Gudang", Description: "Mencatat keluar masuk barang dan menyusun laporan stok harian.", Location: "Bandung", Type: job.TypeFullTime, Level: job.LevelEntry},
	{Title: "Operator Produksi", Description: "Menjalankan mesin produksi sesuai SOP dan target shift.", Location: "Cimahi", Type: job.TypeContract, Level: job.LevelEntry},
	{Title: "Teknisi Listrik", Description: "Perawatan instalasi listrik pabrik dan perbaikan panel.", Location: "Bandung", Type: job.TypeFullTime, Level: job.LevelJunior},
	{Title: "Staf Akuntansi", Description: "Rekonsiliasi bank, jurnal harian, dan pelaporan pajak bulanan.", Location: "Bandung", Type: job.TypeFullTime, Level: job.LevelMid},
}

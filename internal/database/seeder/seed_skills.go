package seeder

import (
	"context"

	"jobhub/internal/database"

	"github.com/cockroachdb/errors"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range skillCatalogue {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
				it.Name,
				it.Category,
			)
			if err != nil {
				return errors.Wrapf(err, "insert skill %s", it.Name)
			}
		}
		return nil
	})
}

var skillCatalogue = []struct {
	Name     string
	Category string
}{
	{Name: "Microsoft Excel", Category: "Administrasi"},
	{Name: "Microsoft Word", Category: "Administrasi"},
	{Name: "Pengarsipan", Category: "Administrasi"},
	{Name: "Customer Service", Category: "Pelayanan"},
	{Name: "Komunikasi", Category: "Soft Skill"},
	{Name: "Kerja Tim", Category: "Soft Skill"},
	{Name: "Akuntansi", Category: "Keuangan"},
	{Name: "Perpajakan", Category: "Keuangan"},
	{Name: "Mengemudi SIM B1", Category: "Operasional"},
	{Name: "Operator Forklift", Category: "Operasional"},
	{Name: "Las Listrik", Category: "Teknik"},
	{Name: "Instalasi Listrik", Category: "Teknik"},
	{Name: "Desain Grafis", Category: "Kreatif"},
	{Name: "Digital Marketing", Category: "Pemasaran"},
	{Name: "Go", Category: "Pemrograman"},
	{Name: "JavaScript", Category: "Pemrograman"},
	{Name: "PostgreSQL", Category: "Basis Data"},
}

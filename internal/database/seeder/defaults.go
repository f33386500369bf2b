package seeder

import "jobhub/internal/config"

// Defaults returns the seeders run by `jobhub seed`. The demo data set is
// only included when demo is true.
func Defaults(admin config.AdminConfig, demo bool) []Seeder {
	out := []Seeder{
		SkillsSeeder{},
		AdminSeeder{Email: admin.Email, Password: admin.Password},
	}
	if demo {
		out = append(out, DemoSeeder{})
	}
	return out
}

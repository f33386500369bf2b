package repository

import (
	"context"
	"strings"
	"time"

	"jobhub/internal/database"
	"jobhub/internal/domain/profile"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Jobseeker, error)
	SaveProfile(ctx context.Context, j profile.Jobseeker) error
	UpdateDocument(ctx context.Context, j profile.Jobseeker, kind profile.DocumentKind) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

var documentColumns = map[profile.DocumentKind]string{
	profile.DocumentPhoto:           "photo_url",
	profile.DocumentCV:              "cv_url",
	profile.DocumentKTP:             "ktp_url",
	profile.DocumentAK1:             "ak1_url",
	profile.DocumentIjazah:          "ijazah_url",
	profile.DocumentSertifikat:      "sertifikat_url",
	profile.DocumentSuratPengalaman: "surat_pengalaman_url",
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Jobseeker, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, photo_url, first_name, last_name, date_of_birth, gender, phone,
		        address, kecamatan, kelurahan, city, province,
		        last_education_level, last_education_institution, major, summary,
		        cv_url, ktp_url, ak1_url, ijazah_url, sertifikat_url, surat_pengalaman_url,
		        expected_salary, preferred_job_type, profile_completeness, profile_completed,
		        created_at, updated_at
		 FROM jobseekers WHERE user_id = $1`,
		userID,
	)

	var j profile.Jobseeker
	var gender, level string
	if err := row.Scan(
		&j.UserID, &j.PhotoURL, &j.FirstName, &j.LastName, &j.DateOfBirth, &gender, &j.Phone,
		&j.Address, &j.Kecamatan, &j.Kelurahan, &j.City, &j.Province,
		&level, &j.LastEducationInstitution, &j.Major, &j.Summary,
		&j.CVURL, &j.KTPURL, &j.AK1URL, &j.IjazahURL, &j.SertifikatURL, &j.SuratPengalamanURL,
		&j.ExpectedSalary, &j.PreferredJobType, &j.Completeness, &j.Completed,
		&j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return profile.Jobseeker{}, ErrProfileNotFound
		}
		return profile.Jobseeker{}, err
	}
	j.Gender = profile.Gender(gender)
	j.LastEducationLevel = profile.EducationLevel(level)

	var err error
	if j.Educations, err = r.educations(ctx, userID); err != nil {
		return profile.Jobseeker{}, err
	}
	if j.Experiences, err = r.experiences(ctx, userID); err != nil {
		return profile.Jobseeker{}, err
	}
	if j.Certifications, err = r.certifications(ctx, userID); err != nil {
		return profile.Jobseeker{}, err
	}
	if j.Skills, err = r.skills(ctx, userID); err != nil {
		return profile.Jobseeker{}, err
	}
	return j, nil
}

// SaveProfile upserts the profile row and replaces every nested collection
// in one transaction.
func (r *PostgresProfileRepository) SaveProfile(ctx context.Context, j profile.Jobseeker) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO jobseekers (
				user_id, photo_url, first_name, last_name, date_of_birth, gender, phone,
				address, kecamatan, kelurahan, city, province,
				last_education_level, last_education_institution, major, summary,
				cv_url, ktp_url, ak1_url, ijazah_url, sertifikat_url, surat_pengalaman_url,
				expected_salary, preferred_job_type, profile_completeness, profile_completed,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$27)
			ON CONFLICT (user_id) DO UPDATE SET
				photo_url = EXCLUDED.photo_url,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				date_of_birth = EXCLUDED.date_of_birth,
				gender = EXCLUDED.gender,
				phone = EXCLUDED.phone,
				address = EXCLUDED.address,
				kecamatan = EXCLUDED.kecamatan,
				kelurahan = EXCLUDED.kelurahan,
				city = EXCLUDED.city,
				province = EXCLUDED.province,
				last_education_level = EXCLUDED.last_education_level,
				last_education_institution = EXCLUDED.last_education_institution,
				major = EXCLUDED.major,
				summary = EXCLUDED.summary,
				cv_url = EXCLUDED.cv_url,
				ktp_url = EXCLUDED.ktp_url,
				ak1_url = EXCLUDED.ak1_url,
				ijazah_url = EXCLUDED.ijazah_url,
				sertifikat_url = EXCLUDED.sertifikat_url,
				surat_pengalaman_url = EXCLUDED.surat_pengalaman_url,
				expected_salary = EXCLUDED.expected_salary,
				preferred_job_type = EXCLUDED.preferred_job_type,
				profile_completeness = EXCLUDED.profile_completeness,
				profile_completed = EXCLUDED.profile_completed,
				updated_at = EXCLUDED.updated_at`,
			j.UserID, j.PhotoURL, j.FirstName, j.LastName, j.DateOfBirth, string(j.Gender), j.Phone,
			j.Address, j.Kecamatan, j.Kelurahan, j.City, j.Province,
			string(j.LastEducationLevel), j.LastEducationInstitution, j.Major, j.Summary,
			j.CVURL, j.KTPURL, j.AK1URL, j.IjazahURL, j.SertifikatURL, j.SuratPengalamanURL,
			j.ExpectedSalary, j.PreferredJobType, j.Completeness, j.Completed,
			timeOrNow(j.UpdatedAt),
		)
		if err != nil {
			return errors.Wrap(err, "upsert jobseeker")
		}

		for _, table := range []string{"educations", "work_experiences", "certifications", "jobseeker_skills"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE jobseeker_id = $1`, j.UserID); err != nil {
				return errors.Wrapf(err, "clear %s", table)
			}
		}

		for _, e := range j.Educations {
			if _, err := tx.Exec(ctx,
				`INSERT INTO educations (id, jobseeker_id, level, institution, major, start_year, end_year, gpa)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				idOrNew(e.ID), j.UserID, string(e.Level), e.Institution, e.Major, e.StartYear, e.EndYear, e.GPA,
			); err != nil {
				return errors.Wrap(err, "insert education")
			}
		}
		for _, w := range j.Experiences {
			if _, err := tx.Exec(ctx,
				`INSERT INTO work_experiences (id, jobseeker_id, company_name, position, start_date, end_date, description)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				idOrNew(w.ID), j.UserID, w.CompanyName, w.Position, w.StartDate, w.EndDate, w.Description,
			); err != nil {
				return errors.Wrap(err, "insert work experience")
			}
		}
		for _, c := range j.Certifications {
			if _, err := tx.Exec(ctx,
				`INSERT INTO certifications (id, jobseeker_id, name, issuer, issued_at, expires_at, credential_url)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				idOrNew(c.ID), j.UserID, c.Name, c.Issuer, c.IssuedAt, c.ExpiresAt, c.CredentialURL,
			); err != nil {
				return errors.Wrap(err, "insert certification")
			}
		}

		seen := map[string]struct{}{}
		for _, name := range j.Skills {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			skillID, err := ensureSkill(ctx, tx, name)
			if err != nil {
				return errors.Wrapf(err, "ensure skill %s", name)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobseeker_skills (jobseeker_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				j.UserID, skillID,
			); err != nil {
				return errors.Wrap(err, "link skill")
			}
		}
		return nil
	})
}

// UpdateDocument writes the URL for kind together with the recomputed
// completeness fields.
func (r *PostgresProfileRepository) UpdateDocument(ctx context.Context, j profile.Jobseeker, kind profile.DocumentKind) error {
	col, ok := documentColumns[kind]
	if !ok {
		return profile.ErrUnknownDocumentKind
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE jobseekers SET `+col+` = $1, profile_completeness = $2, profile_completed = $3, updated_at = $4
		 WHERE user_id = $5`,
		j.Document(kind), j.Completeness, j.Completed, timeOrNow(j.UpdatedAt), j.UserID,
	)
	if err != nil {
		return errors.Wrap(err, "update document")
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) educations(ctx context.Context, userID uuid.UUID) ([]profile.Education, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, level, institution, major, start_year, end_year, gpa
		 FROM educations WHERE jobseeker_id = $1 ORDER BY start_year DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Education, 0)
	for rows.Next() {
		var e profile.Education
		var level string
		if err := rows.Scan(&e.ID, &level, &e.Institution, &e.Major, &e.StartYear, &e.EndYear, &e.GPA); err != nil {
			return nil, err
		}
		e.Level = profile.EducationLevel(level)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresProfileRepository) experiences(ctx context.Context, userID uuid.UUID) ([]profile.WorkExperience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company_name, position, start_date, end_date, description
		 FROM work_experiences WHERE jobseeker_id = $1 ORDER BY start_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.WorkExperience, 0)
	for rows.Next() {
		var w profile.WorkExperience
		if err := rows.Scan(&w.ID, &w.CompanyName, &w.Position, &w.StartDate, &w.EndDate, &w.Description); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PostgresProfileRepository) certifications(ctx context.Context, userID uuid.UUID) ([]profile.Certification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, issuer, issued_at, expires_at, credential_url
		 FROM certifications WHERE jobseeker_id = $1 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Certification, 0)
	for rows.Next() {
		var c profile.Certification
		if err := rows.Scan(&c.ID, &c.Name, &c.Issuer, &c.IssuedAt, &c.ExpiresAt, &c.CredentialURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresProfileRepository) skills(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.name FROM jobseeker_skills js JOIN skills s ON s.id = js.skill_id
		 WHERE js.jobseeker_id = $1 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func idOrNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

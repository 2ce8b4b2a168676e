package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// GetProjectBySlug returns the project with the given slug, or nil if none exists
func GetProjectBySlug(slug string) (*Project, error) {
	var p Project
	err := GetDB().QueryRow(`
		SELECT id, uuid, slug, name, created_at
		FROM projects
		WHERE slug = ?
	`, slug).Scan(&p.ID, &p.UUID, &p.Slug, &p.Name, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProject registers a new project slug
func CreateProject(slug, name string) (*Project, error) {
	p := &Project{
		UUID:      uuid.New().String(),
		Slug:      slug,
		Name:      name,
		CreatedAt: NowMs(),
	}

	res, err := GetDB().Exec(`
		INSERT INTO projects (uuid, slug, name, created_at)
		VALUES (?, ?, ?, ?)
	`, p.UUID, p.Slug, p.Name, p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// ListProjects returns all registered projects
func ListProjects() ([]Project, error) {
	rows, err := GetDB().Query(`
		SELECT id, uuid, slug, name, created_at
		FROM projects
		ORDER BY slug ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UUID, &p.Slug, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

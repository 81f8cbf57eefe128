package repository

import (
	"testing"
)

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// PostgresActionRepoはActionRepositoryインターフェースを満たすことを検証
func TestPostgresActionRepo_ImplementsInterface(t *testing.T) {
	var _ ActionRepository = (*PostgresActionRepo)(nil)
}

// PostgresProjectRepoはProjectRepositoryインターフェースを満たすことを検証
func TestPostgresProjectRepo_ImplementsInterface(t *testing.T) {
	var _ ProjectRepository = (*PostgresProjectRepo)(nil)
}

// PostgresEligibilityResultRepoはEligibilityResultRepositoryインターフェースを満たすことを検証
func TestPostgresEligibilityResultRepo_ImplementsInterface(t *testing.T) {
	var _ EligibilityResultRepository = (*PostgresEligibilityResultRepo)(nil)
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresActionRepoが正しく初期化されることを検証
func TestNewPostgresActionRepo_Initializes(t *testing.T) {
	repo := NewPostgresActionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresProjectRepoが正しく初期化されることを検証
func TestNewPostgresProjectRepo_Initializes(t *testing.T) {
	repo := NewPostgresProjectRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

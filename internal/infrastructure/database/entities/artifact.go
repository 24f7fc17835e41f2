package entities

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/artifact"
)

// Artifact represents the database schema for artifact metadata. The file
// bytes live under the owner's storage directory; only the relative path is
// recorded here.
type Artifact struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ThreadID  string    `gorm:"type:char(26);index:idx_artifact_thread_run;not null"`
	UserID    string    `gorm:"type:varchar(64);index;not null"`
	RunID     *string   `gorm:"type:varchar(64);index:idx_artifact_thread_run"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Name      string    `gorm:"type:varchar(256);not null"`
	Path      string    `gorm:"type:varchar(1024);not null"`
	AssetID   *string   `gorm:"type:varchar(64)"`
	IsFolder  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for Artifact.
func (Artifact) TableName() string {
	return "artifacts"
}

// EtoD converts database entity to domain model
func (a *Artifact) EtoD() *artifact.Artifact {
	return &artifact.Artifact{
		ID:        a.ID,
		ThreadID:  a.ThreadID,
		UserID:    a.UserID,
		RunID:     a.RunID,
		Type:      artifact.Type(a.Type),
		Name:      a.Name,
		Path:      a.Path,
		AssetID:   a.AssetID,
		IsFolder:  a.IsFolder,
		CreatedAt: a.CreatedAt,
	}
}

// NewSchemaArtifact creates a database entity from domain model
func NewSchemaArtifact(a *artifact.Artifact) *Artifact {
	return &Artifact{
		ID:        a.ID,
		ThreadID:  a.ThreadID,
		UserID:    a.UserID,
		RunID:     a.RunID,
		Type:      string(a.Type),
		Name:      a.Name,
		Path:      a.Path,
		AssetID:   a.AssetID,
		IsFolder:  a.IsFolder,
		CreatedAt: a.CreatedAt,
	}
}

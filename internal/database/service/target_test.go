package service

import (
	"testing"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectTarget(t *testing.T) {
	t.Parallel()

	regular := &types.Project{ID: 1, CreatorID: 10}
	core := &types.Project{ID: 2, CreatorID: 20, IsCore: true}

	tests := []struct {
		name     string
		project  *types.Project
		typ      enum.ModerationType
		wantType enum.ModerationType
		wantErr  error
	}{
		{
			name:     "regular project as project",
			project:  regular,
			typ:      enum.ModerationTypeProject,
			wantType: enum.ModerationTypeProject,
		},
		{
			name:     "core project as core project",
			project:  core,
			typ:      enum.ModerationTypeCoreProject,
			wantType: enum.ModerationTypeCoreProject,
		},
		{
			name:    "regular project as core project",
			project: regular,
			typ:     enum.ModerationTypeCoreProject,
			wantErr: assign.ErrIllegalModerationType,
		},
		{
			name:    "core project as project",
			project: core,
			typ:     enum.ModerationTypeProject,
			wantErr: assign.ErrIllegalModerationType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target, err := projectTarget(tt.project, tt.typ)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, target)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, target.Type())
			assert.Equal(t, tt.project.ID, target.ID())
			assert.Equal(t, tt.project.CreatorID, target.Owner())
		})
	}
}

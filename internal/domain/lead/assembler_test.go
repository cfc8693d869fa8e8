package lead

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	inserted []*Submission
	err      error
}

func (r *recordingRepo) Insert(_ context.Context, s *Submission) error {
	if r.err != nil {
		return r.err
	}
	s.ID = "01J000000000000000000000AB"
	s.CreatedAt = "2026-10-17T09:00:00Z"
	r.inserted = append(r.inserted, s)
	return nil
}

func (r *recordingRepo) FindAll(context.Context) ([]Submission, error) { return nil, nil }
func (r *recordingRepo) FindByID(context.Context, string) (*Submission, error) {
	return nil, ErrNotFound
}
func (r *recordingRepo) UpdateStatus(context.Context, string, Status) error { return nil }

func TestInvalidFormMakesNoStorageCall(t *testing.T) {
	repo := &recordingRepo{}
	_, err := NewAssembler(repo).Submit(context.Background(), Form{
		Name:    "",
		Email:   "not-an-email",
		Message: "Vorrei una demo",
	}, nil)

	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"name": "required", "email": "email"}, verr.FieldErrors)
	assert.Empty(t, repo.inserted)
}

func TestValidateFormTrimsBeforeChecking(t *testing.T) {
	err := ValidateForm(Form{Name: "   ", Email: " mario@studio.it ", Message: "\n\t"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"name": "required", "message": "required"}, verr.FieldErrors)
}

func TestValidateFormLengthLimits(t *testing.T) {
	valid := Form{Name: "Mario Rossi", Email: "mario@studio.it", Message: "Vorrei una demo"}

	tests := []struct {
		name   string
		modify func(*Form)
		want   map[string]string
	}{
		{"message at limit", func(f *Form) { f.Message = strings.Repeat("a", 5000) }, nil},
		{"message padded to limit", func(f *Form) { f.Message = "  " + strings.Repeat("a", 5000) + "  " }, nil},
		{"message over limit", func(f *Form) { f.Message = strings.Repeat("a", 5001) }, map[string]string{"message": "max"}},
		{"name over limit", func(f *Form) { f.Name = strings.Repeat("è", 201) }, map[string]string{"name": "max"}},
		{"company over limit", func(f *Form) { f.Company = strings.Repeat("s", 201) }, map[string]string{"company": "max"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.modify(&f)
			err := ValidateForm(f)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.FieldErrors)
		})
	}
}

func TestBuildSubmission(t *testing.T) {
	snap := profiling.NewSnapshot()
	snap.Profession = "avvocati"

	s, err := BuildSubmission(Form{
		Name:    "  Mario Rossi ",
		Email:   "mario@studio.it ",
		Company: "   ",
		Message: " Ciao ",
	}, &snap)
	require.NoError(t, err)

	assert.Equal(t, "Mario Rossi", s.Name)
	assert.Equal(t, "mario@studio.it", s.Email)
	assert.Nil(t, s.Company)
	assert.Equal(t, "Ciao", s.Message)
	assert.Equal(t, StatusNew, s.Status)
	require.NotNil(t, s.Context)
	assert.Equal(t, "avvocati", s.Profession())

	snap.Profession = "changed"
	assert.Equal(t, "avvocati", s.Context.Profession)
}

func TestSubmitStoresCompany(t *testing.T) {
	repo := &recordingRepo{}
	s, err := NewAssembler(repo).Submit(context.Background(), Form{
		Name: "Anna", Email: "anna@notai.it", Company: " Studio Bianchi ", Message: "Info",
	}, nil)
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	require.NotNil(t, s.Company)
	assert.Equal(t, "Studio Bianchi", *s.Company)
	assert.NotEmpty(t, s.ID)
	assert.Nil(t, s.Context)
}

func TestSubmitWrapsStorageFailure(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	_, err := NewAssembler(repo).Submit(context.Background(), Form{
		Name: "Anna", Email: "anna@notai.it", Message: "Info",
	}, nil)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStatus(" Qualified ")
	require.NoError(t, err)
	assert.Equal(t, StatusQualified, got)

	_, err = ParseStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestEffectiveStatus(t *testing.T) {
	assert.Equal(t, StatusNew, Submission{}.EffectiveStatus())
	assert.Equal(t, StatusArchived, Submission{Status: StatusArchived}.EffectiveStatus())
}

package user

import (
	"context"
	"errors"
	"testing"

	"linkup/internal/domain/user"
	"linkup/internal/infrastructure/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]user.Profile
	// order is the store order used for suggestions.
	order []string

	updates      []user.ProfilePatch
	updateErr    error
	findErr      error
	suggestLimit int
}

func newFakeRepo(profiles ...user.Profile) *fakeRepo {
	r := &fakeRepo{byID: map[string]user.Profile{}}
	for _, p := range profiles {
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *fakeRepo) FindConnections(_ context.Context, id string) ([]string, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return p.Connections, nil
}

func (r *fakeRepo) FindSuggestions(_ context.Context, excludeID string, connections []string, limit int) ([]user.Summary, error) {
	r.suggestLimit = limit
	skip := map[string]bool{excludeID: true}
	for _, c := range connections {
		skip[c] = true
	}
	var out []user.Summary
	for _, id := range r.order {
		if skip[id] {
			continue
		}
		out = append(out, r.byID[id].Summary())
	}
	// Ignores limit on purpose so the service cap is exercised.
	return out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (user.Profile, error) {
	if r.findErr != nil {
		return user.Profile{}, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (user.Profile, error) {
	if r.findErr != nil {
		return user.Profile{}, r.findErr
	}
	for _, p := range r.byID {
		if p.Username == username {
			return p, nil
		}
	}
	return user.Profile{}, user.ErrNotFound
}

func (r *fakeRepo) UpdateProfile(_ context.Context, id string, patch user.ProfilePatch) (user.Profile, error) {
	r.updates = append(r.updates, patch)
	if r.updateErr != nil {
		return user.Profile{}, r.updateErr
	}
	p, ok := r.byID[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	p = applyPatch(p, patch)
	r.byID[id] = p
	return p, nil
}

// applyPatch is what a store does with a patch: set fields replace, nil
// fields are kept.
func applyPatch(prof user.Profile, p user.ProfilePatch) user.Profile {
	if p.Name != nil {
		prof.Name = *p.Name
	}
	if p.Username != nil {
		prof.Username = *p.Username
	}
	if p.Headline != nil {
		prof.Headline = *p.Headline
	}
	if p.About != nil {
		prof.About = *p.About
	}
	if p.Location != nil {
		prof.Location = *p.Location
	}
	if p.ProfilePicture != nil {
		prof.ProfilePicture = *p.ProfilePicture
	}
	if p.BannerImg != nil {
		prof.BannerImg = *p.BannerImg
	}
	if p.Skills != nil {
		prof.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.Experience != nil {
		prof.Experience = append([]user.Experience(nil), (*p.Experience)...)
	}
	if p.Education != nil {
		prof.Education = append([]user.Education(nil), (*p.Education)...)
	}
	return prof
}

func (r *fakeRepo) Create(_ context.Context, p user.Profile, _ string) (user.Profile, error) {
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

type fakeUploader struct {
	calls []media.UploadOptions
	fail  map[string]error
}

func (u *fakeUploader) Upload(_ context.Context, raw string, opts media.UploadOptions) (media.UploadResult, error) {
	u.calls = append(u.calls, opts)
	if err := u.fail[opts.Folder]; err != nil {
		return media.UploadResult{}, err
	}
	return media.UploadResult{URL: "https://cdn.test/" + opts.Folder + "/" + raw}, nil
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

type fakeNotifier struct {
	profiles []user.Profile
	fields   [][]string
}

func (n *fakeNotifier) ProfileUpdated(p user.Profile, fields []string) {
	n.profiles = append(n.profiles, p)
	n.fields = append(n.fields, fields)
}

func strPtr(s string) *string { return &s }

func alice() user.Profile {
	return user.Profile{
		ID:          "u1",
		Name:        "Alice",
		Username:    "alice",
		Headline:    "Engineer",
		Location:    "Berlin",
		Skills:      []string{"Go"},
		Connections: []string{"u2"},
	}
}

func TestService_SuggestConnections_ExcludesSelfAndConnections(t *testing.T) {
	repo := newFakeRepo(
		alice(),
		user.Profile{ID: "u2", Username: "bob"},
		user.Profile{ID: "u3", Username: "carol"},
		user.Profile{ID: "u4", Username: "dave"},
	)
	svc := NewService(repo, &fakeUploader{})

	got, err := svc.SuggestConnections(context.Background(), "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"u3", "u4"}, ids)
	assert.Equal(t, SuggestionLimit, repo.suggestLimit)
}

func TestService_SuggestConnections_CapsAtLimit(t *testing.T) {
	profiles := []user.Profile{{ID: "me", Username: "me"}}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		profiles = append(profiles, user.Profile{ID: id, Username: id})
	}
	svc := NewService(newFakeRepo(profiles...), &fakeUploader{})

	got, err := svc.SuggestConnections(context.Background(), "me")
	require.NoError(t, err)
	assert.Len(t, got, SuggestionLimit)
}

func TestService_SuggestConnections_UnknownRequester(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})

	_, err := svc.SuggestConnections(context.Background(), "ghost")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestService_GetPublicProfile(t *testing.T) {
	svc := NewService(newFakeRepo(alice()), &fakeUploader{})

	p, err := svc.GetPublicProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)

	_, err = svc.GetPublicProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.GetPublicProfile(context.Background(), "")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestService_GetPublicProfile_StoreFailure(t *testing.T) {
	repo := newFakeRepo(alice())
	repo.findErr = errors.New("connection reset")
	svc := NewService(repo, &fakeUploader{})

	_, err := svc.GetPublicProfile(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, user.ErrNotFound)
}

func TestService_UpdateProfile_OnlyProvidedFieldChanges(t *testing.T) {
	repo := newFakeRepo(alice())
	svc := NewService(repo, &fakeUploader{})

	got, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Name: strPtr("Alice Liddell")})
	require.NoError(t, err)

	want := alice()
	want.Name = "Alice Liddell"
	assert.Equal(t, want, got)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, []string{user.FieldName}, repo.updates[0].Fields())
}

func TestService_UpdateProfile_EmptyStringIsIgnored(t *testing.T) {
	repo := newFakeRepo(alice())
	svc := NewService(repo, &fakeUploader{})

	got, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Headline: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", got.Headline)
	require.Len(t, repo.updates, 1)
	assert.Empty(t, repo.updates[0].Fields())
}

func TestService_UpdateProfile_StoresUploadURL(t *testing.T) {
	repo := newFakeRepo(alice())
	up := &fakeUploader{}
	svc := NewService(repo, up)

	got, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		ProfilePicture: strPtr("pic"),
		BannerImg:      strPtr("banner"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/profile_pictures/pic", got.ProfilePicture)
	assert.Equal(t, "https://cdn.test/banners/banner", got.BannerImg)
	assert.Equal(t, []media.UploadOptions{
		{Folder: media.FolderProfilePictures},
		{Folder: media.FolderBanners},
	}, up.calls)
}

func TestService_UpdateProfile_BannerFailurePersistsNothing(t *testing.T) {
	repo := newFakeRepo(alice())
	up := &fakeUploader{fail: map[string]error{media.FolderBanners: errors.New("upstream down")}}
	notifier := &fakeNotifier{}
	svc := NewService(repo, up, WithNotifier(notifier))

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Name:           strPtr("Changed"),
		ProfilePicture: strPtr("pic"),
		BannerImg:      strPtr("banner"),
	})
	require.Error(t, err)

	assert.Len(t, up.calls, 2)
	assert.Empty(t, repo.updates)
	assert.Equal(t, alice(), repo.byID["u1"])
	assert.Empty(t, notifier.profiles)
}

func TestService_UpdateProfile_EmptyListClears(t *testing.T) {
	repo := newFakeRepo(alice())
	svc := NewService(repo, &fakeUploader{})

	got, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Skills: []string{}})
	require.NoError(t, err)
	assert.Empty(t, got.Skills)
	assert.Equal(t, []string{user.FieldSkills}, repo.updates[0].Fields())
}

func TestService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})

	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestService_UpdateProfile_RateLimited(t *testing.T) {
	repo := newFakeRepo(alice())
	up := &fakeUploader{}
	lim := &fakeLimiter{allow: false}
	svc := NewService(repo, up, WithLimiter(lim))

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{ProfilePicture: strPtr("pic")})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, []string{"u1"}, lim.keys)
	assert.Empty(t, up.calls)
	assert.Empty(t, repo.updates)
}

func TestService_UpdateProfile_LimiterErrorFailsOpen(t *testing.T) {
	repo := newFakeRepo(alice())
	svc := NewService(repo, &fakeUploader{}, WithLimiter(&fakeLimiter{allow: true, err: errors.New("redis down")}))

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Name: strPtr("x")})
	assert.NoError(t, err)
}

func TestService_UpdateProfile_NotifiesWithFields(t *testing.T) {
	repo := newFakeRepo(alice())
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeUploader{}, WithNotifier(notifier))

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Location: strPtr("Paris"),
		Name:     strPtr("A"),
	})
	require.NoError(t, err)

	require.Len(t, notifier.profiles, 1)
	assert.Equal(t, "Paris", notifier.profiles[0].Location)
	assert.Equal(t, []string{user.FieldName, user.FieldLocation}, notifier.fields[0])
}

func TestService_UpdateProfile_StoreFailure(t *testing.T) {
	repo := newFakeRepo(alice())
	repo.updateErr = errors.New("write conflict")
	svc := NewService(repo, &fakeUploader{})

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Name: strPtr("x")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, user.ErrNotFound)
}

package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistula/epistula-go/core/user"
	testutil "github.com/epistula/epistula-go/tests"
)

func TestUniversities_CRUD(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/universities", `[{"id":1,"name":"MIT"}]`)
	backend.Stub("/universities/1", `{"id":1,"name":"MIT","domain":"mit.edu"}`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	unis := c.Universities()

	list, err := unis.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := unis.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "mit.edu", got.Domain)

	created, err := unis.Create(ctx, NewUniversity{Name: "ETH"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ETH", created.Name)

	updated, err := unis.Update(ctx, created.ID, NewUniversity{Name: "ETH Zurich"})
	require.NoError(t, err)
	assert.Equal(t, "ETH Zurich", updated.Name)

	require.NoError(t, unis.Delete(ctx, created.ID))
}

func TestUniversities_WriteInvalidatesListCache(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/universities", `[{"id":1,"name":"MIT"}]`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	unis := c.Universities()

	_, err := unis.List(ctx)
	require.NoError(t, err)
	_, err = unis.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Hits(http.MethodGet, "/universities"))

	_, err = unis.Create(ctx, NewUniversity{Name: "ETH"})
	require.NoError(t, err)

	// the write dropped the cached listing; next List refetches
	_, err = unis.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Hits(http.MethodGet, "/universities"))
}

func TestFaculties_ListAndMembers(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/universities/1/faculties", `[{"id":10,"university_id":1,"name":"Engineering"}]`)
	backend.Stub("/faculties/10/members", `[{"user_id":5,"username":"prof.ada","role":"professor"}]`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	facs := c.Faculties(1)

	list, err := facs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineering", list[0].Name)

	members, err := facs.Members(ctx, 10)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "professor", members[0].Role)

	require.NoError(t, facs.AddMember(ctx, 10, Member{UserID: 6, Role: "student"}))

	// member write invalidated the member listing only
	_, err = facs.Members(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Hits(http.MethodGet, "/faculties/10/members"))

	_, err = facs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Hits(http.MethodGet, "/universities/1/faculties"))

	require.NoError(t, facs.RemoveMember(ctx, 10, 6))
}

func TestSubjects_CreateInvalidatesFacultyListing(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/faculties/10/subjects", `[]`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	subs := c.Subjects(10)

	_, err := subs.List(ctx)
	require.NoError(t, err)

	created, err := subs.Create(ctx, NewSubject{Name: "Algorithms", Code: "CS101", Semester: 1})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = subs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Hits(http.MethodGet, "/faculties/10/subjects"))
}

func TestLectures_NoteBypassesCache(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/lectures/3/note", `{"lecture_id":3,"content":"# Intro"}`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	lects := c.Lectures(2)

	note, err := lects.Note(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "# Intro", note.Content)

	_, err = lects.Note(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Hits(http.MethodGet, "/lectures/3/note"))

	saved, err := lects.SaveNote(ctx, 3, "# Intro\nmore")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\nmore", saved.Content)
}

func TestMaterials_UploadFillsUploadID(t *testing.T) {
	backend := testutil.NewBackend(t)
	c := newTestClient(t, backend)
	ctx := context.Background()
	mats := c.Materials(3)

	mat, err := mats.Upload(ctx, NewMaterial{Name: "slides.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.NotEmpty(t, mat.UploadID)
	assert.NotZero(t, mat.ID)

	// explicit upload id is preserved for retried uploads
	mat2, err := mats.Upload(ctx, NewMaterial{Name: "slides.pdf", UploadID: "fixed-id"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", mat2.UploadID)
}

func TestUsers_CRUD(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/users", `[{"id":1,"username":"root","roles":["root"]}]`)
	c := newTestClient(t, backend)
	ctx := context.Background()
	users := c.Users()

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRoot())

	created, err := users.Create(ctx, user.NewUser{
		Name:            "Ada Lovelace",
		Username:        "ada.lovelace",
		Email:           "ada@mit.edu",
		Password:        "pwd",
		PasswordConfirm: "pwd",
		Roles:           []string{user.RoleProfessor},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	isActive := false
	_, err = users.Update(ctx, created.ID, user.UpdateUser{IsActive: &isActive})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, created.ID))
}

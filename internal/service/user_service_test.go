package service

import (
	"bytes"
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/testutil"
	"careerzoom_backend/internal/util"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*UserService, *repository.UserRepository, string) {
	t.Helper()
	db := testutil.NewDB(t)
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: dir}}
	users := repository.NewUserRepository(db)
	return NewUserService(users, NewStorageService(context.Background(), cfg)), users, dir
}

// fileHeader 经 multipart 编解码得到真实的 FileHeader
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, users.DB, "pw@example.com")
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	user.Password = string(hashed)
	if err := users.Update(ctx, user); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Password: "new-secret"}); !errors.Is(err, util.ErrCurrentPasswordNeeded) {
		t.Fatalf("want ErrCurrentPasswordNeeded, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Password: "new-secret", CurrentPassword: "wrong"}); !errors.Is(err, util.ErrCurrentPasswordWrong) {
		t.Fatalf("want ErrCurrentPasswordWrong, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FirstName:       "Renamed",
		Password:        "new-secret",
		CurrentPassword: "old-secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.FirstName != "Renamed" || updated.LastName != "User" {
		t.Fatalf("names: %q %q", updated.FirstName, updated.LastName)
	}
	stored, _ := users.FindByID(ctx, user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new-secret")) != nil {
		t.Fatal("password not updated")
	}
}

func TestUpdateProfileEmail(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, users.DB, "first@example.com")
	testutil.CreateUser(t, users.DB, "taken@example.com")

	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: "Taken@Example.com"}); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("want ErrEmailRegistered, got %v", err)
	}
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: " New@Example.com "})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("email = %q", updated.Email)
	}
}

func TestUploadProfilePicture(t *testing.T) {
	svc, users, dir := newUserFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, users.DB, "pic@example.com")

	if _, err := svc.UploadProfilePicture(ctx, user.ID, fileHeader(t, "notes.txt", "text/plain", []byte("hi"))); !errors.Is(err, util.ErrUnsupportedFileType) {
		t.Fatalf("want ErrUnsupportedFileType, got %v", err)
	}

	first, err := svc.UploadProfilePicture(ctx, user.ID, fileHeader(t, "me.PNG", "image/png", []byte("png-1")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(first, "/uploads/profile-pictures/") || !strings.HasSuffix(first, ".png") {
		t.Fatalf("url = %q", first)
	}
	firstPath := filepath.Join(dir, strings.TrimPrefix(first, "/uploads/"))
	if _, err := os.Stat(firstPath); err != nil {
		t.Fatalf("first upload missing: %v", err)
	}

	second, err := svc.UploadProfilePicture(ctx, user.ID, fileHeader(t, "me.jpg", "image/jpeg", []byte("jpg-2")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Fatalf("previous picture should be removed, stat err=%v", err)
	}
	stored, _ := users.FindByID(ctx, user.ID)
	if stored.ProfilePicture != second {
		t.Fatalf("profile picture = %q, want %q", stored.ProfilePicture, second)
	}
}

package docstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/blob/memory"
	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	"dataroom/internal/domain/services"
	docstoreSvc "dataroom/internal/domain/services/docstore"
	"dataroom/internal/repository/sqlite"
	"dataroom/internal/service/audit"
)

type testEnv struct {
	datarooms docstoreSvc.DataroomService
	folders   docstoreSvc.FolderService
	files     docstoreSvc.FileService
	tree      docstoreSvc.TreeService
	blobs     *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	client := sqlite.NewTestClient(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dataroomRepo := sqlite.NewDataroomRepository(client)
	folderRepo := sqlite.NewFolderRepository(client)
	fileRepo := sqlite.NewFileRepository(client)
	tm := sqlite.NewTransactionManager(client)
	validator := NewResourceValidator(dataroomRepo, folderRepo)
	blobs := memory.New()
	recorder := audit.Nop{}

	return &testEnv{
		datarooms: NewDataroomService(dataroomRepo, fileRepo, tm, blobs, 4, recorder, logger),
		folders:   NewFolderService(folderRepo, fileRepo, tm, validator, blobs, 4, recorder, logger),
		files:     NewFileService(fileRepo, tm, validator, blobs, recorder, logger),
		tree:      NewTreeService(validator, folderRepo, fileRepo, logger),
		blobs:     blobs,
	}
}

func (e *testEnv) dataroom(t *testing.T, name string) *models.Dataroom {
	t.Helper()
	d, err := e.datarooms.CreateDataroom(context.Background(), &docstoreSvc.CreateDataroomRequest{Name: name})
	require.NoError(t, err)
	return d
}

func (e *testEnv) folder(t *testing.T, dataroomID string, parent *models.Folder, name string) *models.Folder {
	t.Helper()
	req := &docstoreSvc.CreateFolderRequest{DataroomID: dataroomID, Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	f, err := e.folders.CreateFolder(context.Background(), req)
	require.NoError(t, err)
	return f
}

func (e *testEnv) upload(t *testing.T, folder *models.Folder, filename, content string) *models.File {
	t.Helper()
	f, err := e.files.UploadFile(context.Background(), &docstoreSvc.UploadFileRequest{
		DataroomID:  folder.DataroomID,
		FolderID:    folder.ID,
		Filename:    filename,
		ContentType: models.PDFContentType,
		Content:     strings.NewReader(content),
	})
	require.NoError(t, err)
	return f
}

func ptr(s string) *string { return &s }

func TestAcmeLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	acme := env.dataroom(t, "Acme")
	contracts := env.folder(t, acme.ID, nil, "Contracts")
	y2024 := env.folder(t, acme.ID, contracts, "2024")
	assert.Equal(t, "Contracts/2024", y2024.Path)

	nda := env.upload(t, y2024, "nda.pdf", "%PDF-1.7 nda")
	assert.Equal(t, "nda.pdf", nda.Name)
	assert.Equal(t, y2024.ID, nda.FolderID)
	assert.Equal(t, acme.ID, nda.DataroomID)

	legal, err := env.folders.RenameFolder(ctx, contracts.ID, "Legal")
	require.NoError(t, err)
	assert.Equal(t, "Legal", legal.Path)

	child, err := env.folders.GetFolder(ctx, y2024.ID)
	require.NoError(t, err)
	assert.Equal(t, "Legal/2024", child.Path)

	file, err := env.files.GetFile(ctx, nda.ID)
	require.NoError(t, err)
	assert.Equal(t, y2024.ID, file.FolderID)

	require.NoError(t, env.folders.DeleteFolder(ctx, legal.ID))

	tree, err := env.tree.GetTree(ctx, acme.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Folders)
	_, err = env.files.GetFile(ctx, nda.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, env.blobs.Len())
}

func TestCreateDataroom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first := env.dataroom(t, "Acme")

	_, err := env.datarooms.CreateDataroom(ctx, &docstoreSvc.CreateDataroomRequest{Name: "  Acme  "})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ResourceID)

	_, err = env.datarooms.CreateDataroom(ctx, &docstoreSvc.CreateDataroomRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.datarooms.CreateDataroom(ctx, &docstoreSvc.CreateDataroomRequest{Name: strings.Repeat("x", 201)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListDatarooms_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.dataroom(t, "First")
	time.Sleep(5 * time.Millisecond)
	env.dataroom(t, "Second")

	list, err := env.datarooms.ListDatarooms(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
}

func TestCreateFolder_CollisionResolution(t *testing.T) {
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")

	first := env.folder(t, d.ID, nil, "Reports")
	second := env.folder(t, d.ID, nil, "Reports")
	third := env.folder(t, d.ID, nil, "Reports")
	assert.Equal(t, "Reports", first.Name)
	assert.Equal(t, "Reports (2)", second.Name)
	assert.Equal(t, "Reports (3)", third.Name)

	// Same name under a different parent is a different scope
	nested := env.folder(t, d.ID, first, "Reports")
	assert.Equal(t, "Reports", nested.Name)
	assert.Equal(t, "Reports/Reports", nested.Path)

	// And so is another dataroom
	other := env.dataroom(t, "Globex")
	assert.Equal(t, "Reports", env.folder(t, other.ID, nil, "Reports").Name)
}

func TestCreateFolder_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	other := env.dataroom(t, "Globex")
	foreign := env.folder(t, other.ID, nil, "Theirs")

	tests := []struct {
		desc string
		req  *docstoreSvc.CreateFolderRequest
		want error
	}{
		{"missing dataroom", &docstoreSvc.CreateFolderRequest{DataroomID: "nope", Name: "A"}, domain.ErrNotFound},
		{"missing parent", &docstoreSvc.CreateFolderRequest{DataroomID: d.ID, Name: "A", ParentID: ptr("nope")}, domain.ErrNotFound},
		{"parent in other dataroom", &docstoreSvc.CreateFolderRequest{DataroomID: d.ID, Name: "A", ParentID: &foreign.ID}, domain.ErrValidation},
		{"empty name", &docstoreSvc.CreateFolderRequest{DataroomID: d.ID, Name: "  "}, domain.ErrValidation},
		{"slash in name", &docstoreSvc.CreateFolderRequest{DataroomID: d.ID, Name: "a/b"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := env.folders.CreateFolder(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateFolder_EmptyParentMeansRoot(t *testing.T) {
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")

	f, err := env.folders.CreateFolder(context.Background(), &docstoreSvc.CreateFolderRequest{DataroomID: d.ID, Name: "Root", ParentID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, f.ParentID)
	assert.Equal(t, "Root", f.Path)
}

func TestListContents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	root := env.folder(t, d.ID, nil, "Root")
	env.folder(t, d.ID, root, "b")
	a := env.folder(t, d.ID, root, "a")
	env.folder(t, d.ID, a, "deep")
	env.upload(t, root, "z.pdf", "z")
	env.upload(t, root, "m.pdf", "m")

	contents, err := env.folders.ListContents(ctx, d.ID, root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, contents.Folder.ID)
	assert.Equal(t, []string{"a", "b"}, folderNamesOf(contents.Folders))
	assert.Equal(t, []string{"m.pdf", "z.pdf"}, fileNamesOf(contents.Files))
}

func TestListContents_WrongDataroom(t *testing.T) {
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	other := env.dataroom(t, "Globex")
	f := env.folder(t, d.ID, nil, "Root")

	_, err := env.folders.ListContents(context.Background(), other.ID, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.folders.ListContents(context.Background(), d.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListRootFolders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	b := env.folder(t, d.ID, nil, "B")
	env.folder(t, d.ID, nil, "A")
	env.folder(t, d.ID, b, "Nested")

	roots, err := env.folders.ListRootFolders(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, folderNamesOf(roots))

	_, err = env.folders.ListRootFolders(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenameFolder_CascadesOnlyTheSubtree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	finance := env.folder(t, d.ID, nil, "Finance")
	q1 := env.folder(t, d.ID, finance, "Q1")
	deep := env.folder(t, d.ID, q1, "Invoices")
	lookalike := env.folder(t, d.ID, nil, "Finance Archive")
	lookalikeChild := env.folder(t, d.ID, lookalike, "Old")

	other := env.dataroom(t, "Globex")
	otherFinance := env.folder(t, other.ID, nil, "Finance")
	otherChild := env.folder(t, other.ID, otherFinance, "Q1")

	renamed, err := env.folders.RenameFolder(ctx, finance.ID, "Accounting")
	require.NoError(t, err)
	assert.Equal(t, "Accounting", renamed.Path)

	wantPaths := map[string]string{
		q1.ID:             "Accounting/Q1",
		deep.ID:           "Accounting/Q1/Invoices",
		lookalike.ID:      "Finance Archive",
		lookalikeChild.ID: "Finance Archive/Old",
		otherFinance.ID:   "Finance",
		otherChild.ID:     "Finance/Q1",
	}
	for id, want := range wantPaths {
		got, err := env.folders.GetFolder(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Path, "folder %s", got.Name)
	}
}

func TestRenameFolder_CollisionAndNoop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	env.folder(t, d.ID, nil, "Legal")
	contracts := env.folder(t, d.ID, nil, "Contracts")

	renamed, err := env.folders.RenameFolder(ctx, contracts.ID, "Legal")
	require.NoError(t, err)
	assert.Equal(t, "Legal (2)", renamed.Name)

	same, err := env.folders.RenameFolder(ctx, contracts.ID, "Legal (2)")
	require.NoError(t, err)
	assert.Equal(t, "Legal (2)", same.Name, "renaming to its own name keeps it")

	_, err = env.folders.RenameFolder(ctx, "missing", "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.folders.RenameFolder(ctx, contracts.ID, "bad/name")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMoveFolder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	legal := env.folder(t, d.ID, nil, "Legal")
	drafts := env.folder(t, d.ID, nil, "Drafts")
	v1 := env.folder(t, d.ID, drafts, "v1")

	moved, err := env.folders.MoveFolder(ctx, drafts.ID, &legal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Legal/Drafts", moved.Path)
	assert.Equal(t, legal.ID, *moved.ParentID)

	child, err := env.folders.GetFolder(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Legal/Drafts/v1", child.Path)

	back, err := env.folders.MoveFolder(ctx, drafts.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, back.ParentID)
	assert.Equal(t, "Drafts", back.Path)

	child, err = env.folders.GetFolder(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drafts/v1", child.Path)
}

func TestMoveFolder_ResolvesNameInNewScope(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	legal := env.folder(t, d.ID, nil, "Legal")
	env.folder(t, d.ID, legal, "Drafts")
	drafts := env.folder(t, d.ID, nil, "Drafts")

	moved, err := env.folders.MoveFolder(ctx, drafts.ID, &legal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drafts (2)", moved.Name)
	assert.Equal(t, "Legal/Drafts (2)", moved.Path)
}

func TestMoveFolder_RejectsCyclesAndForeignParents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	a := env.folder(t, d.ID, nil, "A")
	b := env.folder(t, d.ID, a, "B")
	c := env.folder(t, d.ID, b, "C")
	foreign := env.folder(t, env.dataroom(t, "Globex").ID, nil, "X")

	_, err := env.folders.MoveFolder(ctx, a.ID, &a.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.folders.MoveFolder(ctx, a.ID, &c.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.folders.MoveFolder(ctx, a.ID, &foreign.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.folders.MoveFolder(ctx, a.ID, ptr("missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	unchanged, err := env.folders.GetFolder(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A/B/C", unchanged.Path)
}

func TestUpdateFolder_RenameAndMoveTogether(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	legal := env.folder(t, d.ID, nil, "Legal")
	drafts := env.folder(t, d.ID, nil, "Drafts")
	env.folder(t, d.ID, drafts, "v1")

	got, err := env.folders.UpdateFolder(ctx, drafts.ID, &docstoreSvc.UpdateFolderRequest{
		Name:     ptr("Working"),
		ParentID: docstoreSvc.OptionalParent{Present: true, Value: &legal.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Legal/Working", got.Path)

	contents, err := env.folders.ListContents(ctx, d.ID, drafts.ID)
	require.NoError(t, err)
	require.Len(t, contents.Folders, 1)
	assert.Equal(t, "Legal/Working/v1", contents.Folders[0].Path)

	_, err = env.folders.UpdateFolder(ctx, drafts.ID, &docstoreSvc.UpdateFolderRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteFolder_CascadesRowsAndBlobs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	root := env.folder(t, d.ID, nil, "Root")
	child := env.folder(t, d.ID, root, "Child")
	grand := env.folder(t, d.ID, child, "Grand")
	keep := env.folder(t, d.ID, nil, "Root Sibling")

	f1 := env.upload(t, root, "a.pdf", "a")
	f2 := env.upload(t, grand, "b.pdf", "b")
	kept := env.upload(t, keep, "c.pdf", "c")

	require.NoError(t, env.folders.DeleteFolder(ctx, root.ID))

	for _, id := range []string{root.ID, child.ID, grand.ID} {
		_, err := env.folders.GetFolder(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	for _, id := range []string{f1.ID, f2.ID} {
		_, err := env.files.GetFile(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.False(t, env.blobs.Has(f1.StoragePath))
	assert.False(t, env.blobs.Has(f2.StoragePath))

	_, err := env.files.GetFile(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, env.blobs.Has(kept.StoragePath))

	assert.ErrorIs(t, env.folders.DeleteFolder(ctx, root.ID), domain.ErrNotFound)
}

func TestDeleteFolder_BlobFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	root := env.folder(t, d.ID, nil, "Root")
	f := env.upload(t, root, "a.pdf", "a")

	env.blobs.FailDeleteWith(func(string) error { return errors.New("disk on fire") })

	require.NoError(t, env.folders.DeleteFolder(ctx, root.ID))
	_, err := env.files.GetFile(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, env.blobs.Has(f.StoragePath), "blob stays behind when delete fails")
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	uploadCtx := services.WithActorID(ctx, "user-42")

	content := "%PDF-1.7 hello"
	file, err := env.files.UploadFile(uploadCtx, &docstoreSvc.UploadFileRequest{
		DataroomID:  d.ID,
		FolderID:    folder.ID,
		Filename:    "Q1 Report.pdf",
		ContentType: "application/octet-stream",
		Content:     strings.NewReader(content),
	})
	require.NoError(t, err)

	assert.Equal(t, "Q1_Report.pdf", file.Name)
	assert.Equal(t, "Q1_Report.pdf", file.OriginalFilename)
	assert.Equal(t, models.PDFContentType, file.ContentType)
	assert.Equal(t, int64(len(content)), file.SizeBytes)
	assert.Equal(t, 1, file.Version)
	require.NotNil(t, file.Checksum)
	assert.Len(t, *file.Checksum, 64)
	require.NotNil(t, file.UploadedByID)
	assert.Equal(t, "user-42", *file.UploadedByID)
	assert.True(t, strings.HasPrefix(file.StoragePath, "datarooms/"+d.ID+"/"+folder.ID+"/"))
	assert.Equal(t, file.StoragePath, env.files.PhysicalLocation(file))

	got, rc, err := env.files.OpenContent(ctx, file.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, file.ID, got.ID)
}

func TestUploadFile_NameCollisionAndDistinctLocators(t *testing.T) {
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")

	first := env.upload(t, folder, "file.pdf", "one")
	second := env.upload(t, folder, "file.pdf", "two")

	assert.Equal(t, "file.pdf", first.Name)
	assert.Equal(t, "file (2).pdf", second.Name)
	assert.Equal(t, "file.pdf", second.OriginalFilename)
	assert.NotEqual(t, first.StoragePath, second.StoragePath)
}

func TestUploadFile_ChecksumIsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")

	a := env.upload(t, folder, "a.pdf", "same bytes")
	b := env.upload(t, folder, "b.pdf", "same bytes")
	c := env.upload(t, folder, "c.pdf", "other bytes")

	assert.Equal(t, *a.Checksum, *b.Checksum)
	assert.NotEqual(t, *a.Checksum, *c.Checksum)
}

func TestUploadFile_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	foreign := env.folder(t, env.dataroom(t, "Globex").ID, nil, "Theirs")

	tests := []struct {
		desc string
		req  docstoreSvc.UploadFileRequest
		want error
	}{
		{"not a pdf", docstoreSvc.UploadFileRequest{DataroomID: d.ID, FolderID: folder.ID, Filename: "notes.txt", ContentType: "text/plain"}, domain.ErrValidation},
		{"empty after sanitizing", docstoreSvc.UploadFileRequest{DataroomID: d.ID, FolderID: folder.ID, Filename: "***", ContentType: models.PDFContentType}, domain.ErrValidation},
		{"folder in other dataroom", docstoreSvc.UploadFileRequest{DataroomID: d.ID, FolderID: foreign.ID, Filename: "a.pdf"}, domain.ErrValidation},
		{"missing folder", docstoreSvc.UploadFileRequest{DataroomID: d.ID, FolderID: "missing", Filename: "a.pdf"}, domain.ErrNotFound},
		{"missing dataroom", docstoreSvc.UploadFileRequest{DataroomID: "missing", FolderID: folder.ID, Filename: "a.pdf"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req := tt.req
			req.Content = strings.NewReader("data")
			_, err := env.files.UploadFile(ctx, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, env.blobs.Len(), "rejected uploads leave no blobs")
	contents, err := env.folders.ListContents(ctx, d.ID, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Files)
}

func TestUploadFile_BlobWriteFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	env.blobs.FailPutWith(func(string) error { return errors.New("bucket gone") })

	_, err := env.files.UploadFile(ctx, &docstoreSvc.UploadFileRequest{
		DataroomID: d.ID,
		FolderID:   folder.ID,
		Filename:   "a.pdf",
		Content:    bytes.NewReader([]byte("data")),
	})

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotEmpty(t, storageErr.Locator)

	contents, err := env.folders.ListContents(ctx, d.ID, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Files, "no row without a blob")
}

func TestOpenContent_MissingBlob(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	f := env.upload(t, folder, "a.pdf", "data")
	require.NoError(t, env.blobs.Delete(ctx, f.StoragePath))

	_, _, err := env.files.OpenContent(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, _, err = env.files.OpenContent(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenameFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	env.upload(t, folder, "final.pdf", "x")
	f := env.upload(t, folder, "draft.pdf", "y")

	renamed, err := env.files.RenameFile(ctx, f.ID, "Q1_report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Q1 report.pdf", renamed.Name)
	assert.Equal(t, "draft.pdf", renamed.OriginalFilename)
	assert.Equal(t, f.StoragePath, renamed.StoragePath)

	collided, err := env.files.RenameFile(ctx, f.ID, "final.pdf")
	require.NoError(t, err)
	assert.Equal(t, "final (2).pdf", collided.Name)

	_, err = env.files.RenameFile(ctx, f.ID, "___")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.files.RenameFile(ctx, "missing", "x.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	folder := env.folder(t, d.ID, nil, "Docs")
	f := env.upload(t, folder, "a.pdf", "x")
	g := env.upload(t, folder, "b.pdf", "y")

	require.NoError(t, env.files.DeleteFile(ctx, f.ID))
	assert.False(t, env.blobs.Has(f.StoragePath))
	_, err := env.files.GetFile(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	env.blobs.FailDeleteWith(func(string) error { return errors.New("nope") })
	require.NoError(t, env.files.DeleteFile(ctx, g.ID), "blob failure does not fail the delete")
	_, err = env.files.GetFile(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, env.files.DeleteFile(ctx, f.ID), domain.ErrNotFound)
}

func TestDeleteDataroom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	keep := env.dataroom(t, "Globex")
	root := env.folder(t, d.ID, nil, "Root")
	child := env.folder(t, d.ID, root, "Child")
	f := env.upload(t, child, "a.pdf", "x")
	kept := env.upload(t, env.folder(t, keep.ID, nil, "Root"), "a.pdf", "y")

	require.NoError(t, env.datarooms.DeleteDataroom(ctx, d.ID))

	_, err := env.datarooms.GetDataroom(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.folders.GetFolder(ctx, child.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.files.GetFile(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, env.blobs.Has(f.StoragePath))
	assert.True(t, env.blobs.Has(kept.StoragePath))

	assert.ErrorIs(t, env.datarooms.DeleteDataroom(ctx, d.ID), domain.ErrNotFound)
}

func TestGetTree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	legal := env.folder(t, d.ID, nil, "Legal")
	finance := env.folder(t, d.ID, nil, "Finance")
	y2024 := env.folder(t, d.ID, legal, "2024")
	nda := env.upload(t, y2024, "nda.pdf", "nda")

	tree, err := env.tree.GetTree(ctx, d.ID)
	require.NoError(t, err)

	want := &models.TreeNode{
		DataroomID: d.ID,
		Folders: []*models.FolderTreeNode{
			{ID: finance.ID, Name: "Finance", Path: "Finance", Folders: []*models.FolderTreeNode{}, Files: []models.FileTreeNode{}},
			{ID: legal.ID, Name: "Legal", Path: "Legal", Files: []models.FileTreeNode{}, Folders: []*models.FolderTreeNode{
				{ID: y2024.ID, Name: "2024", Path: "Legal/2024", ParentID: &legal.ID, Folders: []*models.FolderTreeNode{}, Files: []models.FileTreeNode{
					{ID: nda.ID, Name: "nda.pdf", SizeBytes: 3, Version: 1},
				}},
			}},
		},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(models.FolderTreeNode{}, "CreatedAt"),
		cmpopts.IgnoreFields(models.FileTreeNode{}, "UpdatedAt"),
	}
	if diff := cmp.Diff(want, tree, opts); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	_, err = env.tree.GetTree(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Path invariant: every folder's path equals its ancestor names joined by "/"
func TestPathInvariantAfterMixedOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	d := env.dataroom(t, "Acme")
	a := env.folder(t, d.ID, nil, "A")
	b := env.folder(t, d.ID, a, "B")
	c := env.folder(t, d.ID, b, "C")
	x := env.folder(t, d.ID, nil, "X")

	_, err := env.folders.RenameFolder(ctx, b.ID, "Bee")
	require.NoError(t, err)
	_, err = env.folders.MoveFolder(ctx, a.ID, &x.ID)
	require.NoError(t, err)
	_, err = env.folders.RenameFolder(ctx, x.ID, "Ex")
	require.NoError(t, err)

	tree, err := env.tree.GetTree(ctx, d.ID)
	require.NoError(t, err)

	var walk func(prefix string, nodes []*models.FolderTreeNode)
	walk = func(prefix string, nodes []*models.FolderTreeNode) {
		for _, n := range nodes {
			want := n.Name
			if prefix != "" {
				want = prefix + "/" + n.Name
			}
			assert.Equal(t, want, n.Path)
			walk(n.Path, n.Folders)
		}
	}
	walk("", tree.Folders)

	got, err := env.folders.GetFolder(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ex/A/Bee/C", got.Path)
}

func folderNamesOf(folders []models.Folder) []string {
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return names
}

func fileNamesOf(files []models.File) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

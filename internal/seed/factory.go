// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"devmate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var skillPool = []string{
	"go", "rust", "python", "typescript", "javascript", "java", "kotlin", "swift",
	"react", "vue", "svelte", "nodejs", "postgres", "redis", "docker", "kubernetes",
	"terraform", "aws", "gcp", "grpc", "graphql", "machine-learning", "sre", "security",
}

var codeSamples = []struct {
	language string
	snippet  string
}{
	{"go", "func main() {\n\tfmt.Println(\"hello\")\n}"},
	{"python", "def greet(name):\n    return f\"hi {name}\""},
	{"javascript", "const sum = (a, b) => a + b;"},
	{"sql", "SELECT id, username FROM users WHERE created_at > now() - interval '7 days';"},
	{"bash", "kubectl get pods -A | grep -v Running"},
	{"rust", "fn fib(n: u64) -> u64 {\n    if n < 2 { n } else { fib(n - 1) + fib(n - 2) }\n}"},
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	skills := make([]string, 0, 4)
	for _, i := range f.rng.Perm(len(skillPool))[:f.rng.Intn(4)+1] {
		skills = append(skills, skillPool[i])
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!seed"), bcrypt.MinCost)
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		Password:    string(hashedPassword),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Skills:      skills,
		GithubURL:   fmt.Sprintf("https://github.com/%s", gofakeit.Username()),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for the user without persisting it. Roughly a
// third of generated posts carry a code snippet.
func (f *Factory) BuildPost(user *models.User, maxDays int, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:  user.ID,
	}

	if f.rng.Intn(3) == 0 {
		sample := codeSamples[f.rng.Intn(len(codeSamples))]
		post.CodeSnippet = sample.snippet
		post.CodeLanguage = sample.language
	}

	// realistic created_at spread
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a comment by the user on the post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateMessage persists a direct message between two users.
func (f *Factory) CreateMessage(sender, recipient *models.User) (*models.Message, error) {
	message := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Content:     gofakeit.Sentence(f.rng.Intn(15) + 2),
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

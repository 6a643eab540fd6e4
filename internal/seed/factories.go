package seed

import (
	"fmt"
	"strings"
	"unicode"

	"wiseadvice/internal/models"
	"wiseadvice/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake service inputs. A Factory created with the same seed
// produces the same sequence of values.
type Factory struct {
	fake *gofakeit.Faker
	n    int
}

// NewFactory returns a Factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{fake: gofakeit.New(seed)}
}

// login turns a fake username into something the login rules accept and
// appends a counter so repeated names stay unique.
func (f *Factory) login() string {
	var b strings.Builder
	for _, r := range f.fake.Username() {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	base := b.String()
	if len(base) < 3 {
		base = "user"
	}
	if len(base) > 20 {
		base = base[:20]
	}
	f.n++
	return fmt.Sprintf("%s%d", base, f.n)
}

// User builds a confirmed member with the given password.
func (f *Factory) User(password string) service.CreateUserInput {
	login := f.login()
	return service.CreateUserInput{
		Login:    login,
		Password: password,
		Email:    login + "@" + f.fake.DomainName(),
		FullName: f.fake.Name(),
		Role:     models.RoleUser,
	}
}

// Post builds a question tagged with one or two of cats.
func (f *Factory) Post(authorID uint, cats []CategoryFixture) service.CreatePostInput {
	in := service.CreatePostInput{
		AuthorID: authorID,
		Title:    strings.TrimSuffix(f.fake.Question(), "?") + "?",
		Content:  f.fake.Paragraph(1, 3, 14, "\n\n"),
	}
	if len(cats) > 0 {
		picked := []string{cats[f.fake.Number(0, len(cats)-1)].Title}
		if len(cats) > 1 && f.fake.Bool() {
			second := cats[f.fake.Number(0, len(cats)-1)].Title
			if second != picked[0] {
				picked = append(picked, second)
			}
		}
		in.Categories = strings.Join(picked, ",")
	}
	return in
}

// Comment builds an answer to postID.
func (f *Factory) Comment(authorID, postID uint) service.CreateCommentInput {
	return service.CreateCommentInput{
		AuthorID: authorID,
		PostID:   postID,
		Content:  f.fake.Sentence(f.fake.Number(6, 18)),
	}
}

// Reaction picks like three times out of four.
func (f *Factory) Reaction() models.ReactionType {
	if f.fake.Number(1, 4) == 4 {
		return models.ReactionDislike
	}
	return models.ReactionLike
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.fake.Number(0, n-1)
}

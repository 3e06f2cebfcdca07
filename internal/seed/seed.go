package seed

import (
	"fmt"
	"log"
	"math/rand"

	"devmate/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users with skills, posts with
// code snippets, a follow graph, likes, comments, notifications, and DM
// threads.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db)
	rng := rand.New(rand.NewSource(1))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rng.Intn(len(users))]
		posts = append(posts, factory.BuildPost(author, 90))
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	follows, err := createFollowGraph(db, users, rng)
	if err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Printf("%d follows created", follows)

	likes, comments, err := createEngagement(db, factory, users, posts, rng)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("%d likes and %d comments created", likes, comments)

	messages, err := createMessageThreads(factory, users, rng)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("%d direct messages created", messages)

	log.Println("Seeding complete")
	return nil
}

// createFollowGraph gives every user a handful of random follows. The unique
// index on (follower_id, following_id) silently absorbs duplicates.
func createFollowGraph(db *gorm.DB, users []*models.User, rng *rand.Rand) (int, error) {
	created := 0
	for _, follower := range users {
		n := rng.Intn(6) + 1
		for i := 0; i < n; i++ {
			target := users[rng.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FollowingID: target.ID}
			result := db.Where(models.Follow{
				FollowerID:  follower.ID,
				FollowingID: target.ID,
			}).FirstOrCreate(&follow)
			if result.Error != nil {
				return created, result.Error
			}
			if result.RowsAffected > 0 {
				created++
				notification := models.Notification{
					UserID:  target.ID,
					Type:    models.NotificationTypeFollow,
					ActorID: follower.ID,
				}
				if err := db.Create(&notification).Error; err != nil {
					return created, err
				}
			}
		}
	}
	return created, nil
}

// createEngagement sprinkles likes and comments over the feed, creating the
// notifications the live handlers would have produced.
func createEngagement(db *gorm.DB, factory *Factory, users []*models.User, posts []*models.Post, rng *rand.Rand) (int, int, error) {
	likes, comments := 0, 0
	for _, post := range posts {
		for _, user := range users {
			if rng.Intn(5) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID}
			result := db.Where(models.Like{UserID: user.ID, PostID: post.ID}).FirstOrCreate(&like)
			if result.Error != nil {
				return likes, comments, result.Error
			}
			if result.RowsAffected > 0 {
				likes++
				if user.ID != post.UserID {
					postID := post.ID
					notification := models.Notification{
						UserID:  post.UserID,
						Type:    models.NotificationTypeLike,
						ActorID: user.ID,
						PostID:  &postID,
					}
					if err := db.Create(&notification).Error; err != nil {
						return likes, comments, err
					}
				}
			}
		}

		n := rng.Intn(4)
		for i := 0; i < n; i++ {
			commenter := users[rng.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return likes, comments, err
			}
			comments++
			if commenter.ID != post.UserID {
				postID := post.ID
				notification := models.Notification{
					UserID:  post.UserID,
					Type:    models.NotificationTypeComment,
					ActorID: commenter.ID,
					PostID:  &postID,
				}
				if err := db.Create(&notification).Error; err != nil {
					return likes, comments, err
				}
			}
		}
	}
	return likes, comments, nil
}

// createMessageThreads builds short DM threads between random user pairs.
func createMessageThreads(factory *Factory, users []*models.User, rng *rand.Rand) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	created := 0
	threads := len(users) / 2
	for i := 0; i < threads; i++ {
		a := users[rng.Intn(len(users))]
		b := users[rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		n := rng.Intn(6) + 2
		for j := 0; j < n; j++ {
			sender, recipient := a, b
			if j%2 == 1 {
				sender, recipient = b, a
			}
			if _, err := factory.CreateMessage(sender, recipient); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// clearData removes seedable rows in FK-safe order.
func clearData(db *gorm.DB) error {
	tables := []string{
		"notifications", "messages", "likes", "comments", "follows", "posts", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

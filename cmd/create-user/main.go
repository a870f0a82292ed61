// CLI tool to create a coach/admin login with a bcrypt-hashed password.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/media2net-app/mihaelafitness/internal/config"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

const minPasswordLen = 8

type credentials struct {
	Username string
	Email    string
	Password string
}

// promptCredentials reads username, email and password, one per line.
func promptCredentials(in io.Reader, out io.Writer) (credentials, error) {
	reader := bufio.NewReader(in)
	ask := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	c := credentials{Username: ask("Username"), Email: ask("Email"), Password: ask("Password")}
	if c.Username == "" {
		return c, errors.New("username is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return c, fmt.Errorf("invalid email %q", c.Email)
		}
	}
	if len(c.Password) < minPasswordLen {
		return c, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return c, nil
}

func main() {
	log := logrus.New()
	log.Out = os.Stderr

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	creds, err := promptCredentials(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := store.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer st.Close()

	u, err := st.CreateUser(ctx, creds.Username, creds.Email, string(hash))
	if errors.Is(err, store.ErrDuplicateName) {
		log.Fatalf("username %q is already taken", creds.Username)
	}
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:       %d\n", u.ID)
	fmt.Printf("  Username: %s\n", u.Username)
}

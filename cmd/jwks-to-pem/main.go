package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/util"
)

// Prints the Supabase auth signing key as PEM for SUPABASE_JWT_PUBLIC_KEY.
func main() {
	url := flag.String("url", "http://127.0.0.1:54321/auth/v1/.well-known/jwks.json", "JWKS endpoint")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *url, nil)
	if err != nil {
		fail("Error building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fail("Error fetching JWKS: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		fail("Error fetching JWKS: status %d", resp.StatusCode)
	}

	var jwks util.JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		fail("Error parsing JWKS: %v", err)
	}

	key, err := jwks.SigningKey()
	if err != nil {
		fail("%v", err)
	}
	pub, err := key.PublicKey()
	if err != nil {
		fail("Error decoding %s key: %v", key.Kty, err)
	}
	pemKey, err := util.EncodePublicKeyPEM(pub)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(pemKey)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

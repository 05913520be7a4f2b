package render

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// FlashCookieName holds pending one-shot messages between a redirect and the
// page that displays them.
const FlashCookieName = "meuseventos_flash"

const flashMaxAge = 5 * time.Minute

type flashKey struct{}

// flashBag is the per-request view of pending messages. Messages added
// during a request are visible to a render in the same request.
type flashBag struct {
	loaded    bool
	hadCookie bool
	messages  []string
}

// FlashStore keeps flash messages in a signed, encrypted cookie.
type FlashStore struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func NewFlashStore(hashKey, blockKey []byte, secure bool) *FlashStore {
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(flashMaxAge.Seconds()))
	return &FlashStore{codec: codec, secure: secure}
}

// Middleware gives each request its own flash bag. It must wrap every
// handler that adds or renders flashes.
func (f *FlashStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), flashKey{}, &flashBag{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Add queues message for the next rendered page.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, message string) {
	bag := f.bag(r)
	bag.messages = append(bag.messages, message)

	encoded, err := f.codec.Encode(FlashCookieName, bag.messages)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(flashMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	bag.hadCookie = true
}

// Consume returns every pending message and clears them.
func (f *FlashStore) Consume(w http.ResponseWriter, r *http.Request) []string {
	bag := f.bag(r)
	messages := bag.messages
	bag.messages = nil

	if bag.hadCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     FlashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   f.secure,
			SameSite: http.SameSiteLaxMode,
		})
		bag.hadCookie = false
	}
	return messages
}

func (f *FlashStore) bag(r *http.Request) *flashBag {
	bag, ok := r.Context().Value(flashKey{}).(*flashBag)
	if !ok {
		bag = &flashBag{}
	}
	if bag.loaded {
		return bag
	}
	bag.loaded = true

	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return bag
	}
	bag.hadCookie = true

	var messages []string
	if err := f.codec.Decode(FlashCookieName, cookie.Value, &messages); err != nil {
		return bag
	}
	bag.messages = append(messages, bag.messages...)
	return bag
}

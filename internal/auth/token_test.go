package auth

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokens *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokens = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret")
	})

	ginkgo.It("should issue an access token carrying identity and expiry", func() {
		// Given
		ttl := 15 * time.Minute

		// When
		token, err := tokens.GenerateAccessToken("u-1", "user@example.com", ttl)

		// Then
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		claims, err := tokens.ValidateToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal("u-1"))
		gomega.Expect(claims.Email).To(gomega.Equal("user@example.com"))
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("~", time.Now().Add(ttl), 5*time.Second))
	})

	ginkgo.It("should reject a token past its expiry", func() {
		token, err := tokens.GenerateAccessToken("u-1", "user@example.com", -time.Minute)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokens.ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
	})

	ginkgo.It("should reject a token signed with a different secret", func() {
		other := NewJWTTokenGenerator("some-other-secret", "test-refresh-secret")
		token, err := other.GenerateAccessToken("u-1", "user@example.com", time.Minute)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokens.ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should reject garbage", func() {
		_, err := tokens.ValidateToken("not-a-token")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should produce distinct access and refresh tokens", func() {
		access, err := tokens.GenerateAccessToken("u-1", "user@example.com", time.Minute)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		refresh, err := tokens.GenerateRefreshToken("u-1", "user@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(access).ToNot(gomega.Equal(refresh))
	})

	ginkgo.It("should generate random secrets", func() {
		first, err := GenerateRandomSecret()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		second, err := GenerateRandomSecret()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(first).ToNot(gomega.Equal(second))
		gomega.Expect(first).To(gomega.HaveLen(64))
	})
})

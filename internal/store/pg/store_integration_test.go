//go:build integration

package pg_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

var _ = Describe("Credential Store", func() {
	BeforeEach(func() {
		_, err := env.store.Pool().Exec(env.ctx, `TRUNCATE usuario, reset_tokens RESTART IDENTITY`)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.store.Pool().Exec(env.ctx,
			`INSERT INTO usuario (nombre_completo, nusuario, contrasena, email, tipo, fecha_nacimiento)
			 VALUES ('Ana Pérez', 'ana', 'YQBiAGMA', 'ana@x.com', 'Admin', '1990-05-01')`)
		Expect(err).NotTo(HaveOccurred())
	})

	It("matches username and encoded secret exactly", func() {
		u, err := env.store.Users().GetByCredentials(env.ctx, "ana", "YQBiAGMA")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Username).To(Equal("ana"))
		Expect(u.Role).To(Equal("Admin"))
		Expect(u.DisplayName).To(Equal("Ana Pérez"))
		Expect(u.BirthDate).NotTo(BeNil())

		_, err = env.store.Users().GetByCredentials(env.ctx, "ANA", "YQBiAGMA")
		Expect(repository.IsNotFound(err)).To(BeTrue())
	})

	It("updates the secret by email", func() {
		Expect(env.store.Users().UpdateSecretByEmail(env.ctx, "ana@x.com", "bgBlAHcA")).To(Succeed())

		u, err := env.store.Users().GetByUsername(env.ctx, "ana")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.EncodedSecret).To(Equal("bgBlAHcA"))

		err = env.store.Users().UpdateSecretByEmail(env.ctx, "ghost@x.com", "x")
		Expect(repository.IsNotFound(err)).To(BeTrue())
	})

	It("returns the code with the latest expiry regardless of insertion order", func() {
		base := time.Now().UTC().Truncate(time.Second)
		tokens := env.store.ResetTokens()

		Expect(tokens.Create(env.ctx, repository.ResetToken{Email: "ana@x.com", Code: "222222", ExpiresAt: base.Add(10 * time.Minute)})).To(Succeed())
		Expect(tokens.Create(env.ctx, repository.ResetToken{Email: "ana@x.com", Code: "111111", ExpiresAt: base.Add(5 * time.Minute)})).To(Succeed())

		latest, err := tokens.Latest(env.ctx, "ana@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(latest.Code).To(Equal("222222"))
		Expect(latest.ExpiresAt.Equal(base.Add(10 * time.Minute))).To(BeTrue())

		_, err = tokens.Latest(env.ctx, "nadie@x.com")
		Expect(repository.IsNotFound(err)).To(BeTrue())
	})

	It("answers ping", func() {
		Expect(env.store.Ping(env.ctx)).To(Succeed())
	})
})

package domain_test

import (
	"errors"
	"vehicle-dashboard/internal/shared_kernel/domain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CredentialBundle", func() {
	Context("Validate", func() {
		When("every field is present", func() {
			It("should be complete", func() {
				bundle := domain.CredentialBundle{
					PhoneID:    "phone",
					IdentityID: "identity",
					VehicleKey: "vkey",
					PrivateKey: "pkey",
				}

				Expect(bundle.Validate()).To(Succeed())
				Expect(bundle.IsComplete()).To(BeTrue())
			})
		})

		When("fields are blank after trimming", func() {
			It("should list every missing field", func() {
				bundle := domain.CredentialBundle{
					PhoneID:    "  ",
					IdentityID: "identity",
					VehicleKey: "",
					PrivateKey: "\t",
				}

				err := bundle.Validate()
				Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())

				var validationErr *domain.ValidationError
				Expect(errors.As(err, &validationErr)).To(BeTrue())
				Expect(validationErr.Fields).To(Equal([]string{
					domain.FieldPhoneID,
					domain.FieldVehicleKey,
					domain.FieldPrivateKey,
				}))
			})
		})
	})

	Context("Builder", func() {
		It("should keep values exactly as given", func() {
			bundle, err := domain.NewCredentialBundleBuilder().
				WithPhoneID(" phone ").
				WithIdentityID("identity").
				WithVehicleKey("vkey").
				WithPrivateKey("-----BEGIN KEY-----\nabc\n").
				Build()

			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.PhoneID).To(Equal(" phone "))
			Expect(bundle.PrivateKey).To(Equal("-----BEGIN KEY-----\nabc\n"))
		})

		It("should refuse an incomplete bundle", func() {
			_, err := domain.NewCredentialBundleBuilder().WithPhoneID("phone").Build()
			Expect(err).To(MatchError(domain.ErrValidation))
		})
	})

	Context("Masked", func() {
		It("should hide all but the last four characters of the keys", func() {
			bundle := domain.CredentialBundle{PhoneID: "p", IdentityID: "i", VehicleKey: "abcdefgh", PrivateKey: "abc"}

			masked := bundle.Masked()

			Expect(masked.VehicleKey).To(Equal("****efgh"))
			Expect(masked.PrivateKey).To(Equal("***"))
			Expect(masked.PhoneID).To(Equal("p"))
		})
	})
})

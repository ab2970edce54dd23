package model

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
)

type Stakeholder struct {
	ProjectChild
	Name             string `gorm:"not null" json:"name"`
	Role             string `gorm:"not null" json:"role"`
	Organization     string `json:"organization,omitempty"`
	StakeholderType  string `json:"stakeholder_type,omitempty"`
	Country          string `json:"country,omitempty"`
	InfluenceLevel   string `json:"influence_level,omitempty"`
	EngagementStatus string `json:"engagement_status,omitempty"`
	ContactEmail     string `json:"contact_email,omitempty"`
	ContactPhone     string `json:"contact_phone,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

func (Stakeholder) TableName() string {
	return "stakeholders"
}

func getCipherForDb(tx *gorm.DB) (cipher.Cipher, bool) {
	if tx == nil || tx.Statement == nil {
		return nil, false
	}
	return cipher.FromContext(tx.Statement.Context)
}

// BeforeSave encrypts contact details when the connection carries a cipher.
// The row id is the AAD, so BeforeCreate's id assignment is done here first.
func (s *Stakeholder) BeforeSave(tx *gorm.DB) error {
	c, ok := getCipherForDb(tx)
	if !ok {
		return nil
	}
	if err := s.Base.BeforeCreate(tx); err != nil {
		return err
	}

	aad := s.ID.String()
	var err error
	if s.ContactEmail != "" {
		if s.ContactEmail, err = cipher.EncryptString(c, aad, s.ContactEmail); err != nil {
			return fmt.Errorf("stakeholder encryption failed for id=%q", aad)
		}
	}
	if s.ContactPhone != "" {
		if s.ContactPhone, err = cipher.EncryptString(c, aad, s.ContactPhone); err != nil {
			return fmt.Errorf("stakeholder encryption failed for id=%q", aad)
		}
	}
	return nil
}

// AfterSave restores plaintext on the in-memory value so callers never see ciphertext.
func (s *Stakeholder) AfterSave(tx *gorm.DB) error {
	return s.AfterFind(tx)
}

func (s *Stakeholder) AfterFind(tx *gorm.DB) (err error) {
	c, ok := getCipherForDb(tx)
	if !ok {
		return nil
	}

	aad := s.ID.String()
	if s.ContactEmail != "" {
		if s.ContactEmail, err = cipher.DecryptString(c, aad, s.ContactEmail); err != nil {
			return fmt.Errorf("stakeholder decryption failed for id=%q", aad)
		}
	}
	if s.ContactPhone != "" {
		if s.ContactPhone, err = cipher.DecryptString(c, aad, s.ContactPhone); err != nil {
			return fmt.Errorf("stakeholder decryption failed for id=%q", aad)
		}
	}
	return
}

package llm

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/voterscan/voterscan/internal/common"
)

// Credential is the structured key file for the inference backend. The
// project identifier is the tenant identity the backend bills against;
// without it no usable identity can be derived and the attempt fails with
// ErrCredential before any call is made.
type Credential struct {
	ProjectID string `json:"project_id"`
	APIKey    string `json:"api_key"`
}

// LoadCredential reads and validates a credential key file. Callers must
// treat the result as scoped to a single backend call and Wipe it on every
// exit path.
func LoadCredential(path string) (*Credential, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError("CREDENTIAL_ERROR", "read key file", common.ErrCredential)
	}
	var cred Credential
	if err := json.Unmarshal(b, &cred); err != nil {
		return nil, common.NewAppError("CREDENTIAL_ERROR", "key file is not valid JSON", common.ErrCredential)
	}
	cred.ProjectID = strings.TrimSpace(cred.ProjectID)
	cred.APIKey = strings.TrimSpace(cred.APIKey)
	if cred.ProjectID == "" {
		return nil, common.NewAppError("CREDENTIAL_ERROR", "key file has no project_id", common.ErrCredential)
	}
	if cred.APIKey == "" {
		return nil, common.NewAppError("CREDENTIAL_ERROR", "key file has no api_key", common.ErrCredential)
	}
	return &cred, nil
}

// Wipe destroys the in-memory credential material. Safe on nil.
func (c *Credential) Wipe() {
	if c == nil {
		return
	}
	c.ProjectID = ""
	c.APIKey = ""
}

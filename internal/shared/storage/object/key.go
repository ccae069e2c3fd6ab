package object

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"resume-builder/internal/shared/util"
)

// NewKey builds "<owner hash>/<uuid>_<file name>".
func NewKey(ownerID, fileName string) (string, error) {
	name, err := util.ObjectName(fileName)
	if err != nil {
		return "", fmt.Errorf("object key: %w", err)
	}
	return path.Join(util.OwnerPrefix(ownerID), uuid.NewString()+"_"+name), nil
}

// ContentType returns declared when set, otherwise sniffs head.
func ContentType(declared string, head []byte) string {
	if declared != "" {
		return declared
	}
	return http.DetectContentType(head)
}

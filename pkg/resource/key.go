// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// KeyLen is the length of a document key in hex characters.
const KeyLen = 20

// Key derives the content-addressed identity of a document request from its
// normalized parts. Equal requests map to equal keys, so a finished document
// can be reused by later identical requests.
func Key(parts ...string) string {
	sum := blake3.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])[:KeyLen]
}

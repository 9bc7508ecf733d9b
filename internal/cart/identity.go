package cart

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

// identityKey is product|size|customizations|notes with groups sorted by id
// and options sorted by id inside each group, so selection order never
// splits otherwise identical lines.
func identityKey(productID uuid.UUID, sizeID *uuid.UUID, customizations types.LineCustomizations, notes string) string {
	var b strings.Builder
	b.WriteString(productID.String())
	b.WriteByte('|')
	if sizeID != nil {
		b.WriteString(sizeID.String())
	}
	b.WriteByte('|')

	groups := make([]string, 0, len(customizations))
	for _, group := range customizations {
		if len(group.Options) == 0 {
			continue
		}
		options := make([]string, 0, len(group.Options))
		for _, choice := range group.Options {
			options = append(options, choice.OptionID.String())
		}
		sort.Strings(options)
		groups = append(groups, group.GroupID.String()+":"+strings.Join(options, ","))
	}
	sort.Strings(groups)
	b.WriteString(strings.Join(groups, ";"))

	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(notes))
	return b.String()
}

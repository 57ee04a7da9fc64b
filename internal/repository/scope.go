package repository

import "fmt"

// schoolScope appends the school visibility condition for a caller. A
// caller bound to a school sees only that school's rows; a caller with no
// school sees only legacy rows carrying no school reference.
func schoolScope(column string, schoolID *string, args []interface{}) (string, []interface{}) {
	if schoolID != nil {
		return fmt.Sprintf(" AND %s = $%d", column, len(args)+1), append(args, *schoolID)
	}
	return fmt.Sprintf(" AND %s IS NULL", column), args
}

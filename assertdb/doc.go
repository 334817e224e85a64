// Package assertdb provides fluent assertions on database content: table snapshots,
// SQL request results, and the changes between two points in time.
//
// Strict chains panic on the first failed assertion:
//
//	assertdb.AssertThatTable(items).
//		HasNumberOfRows(2).
//		Row(0).HasValues(1, "apple", 1.5)
//
// Soft chains record every failure and report them together:
//
//	softly, err := assertdb.NewSoftAssertions()
//	if err != nil {
//		return err
//	}
//
//	softly.AssertThatTable(items).HasNumberOfRows(3)
//	softly.AssertThatChanges(changes).Change(0).IsCreation().ColumnByName("NAME").IsModified()
//
//	return softly.AssertAll()
//
// Navigation methods (Row, Column, Value, Change and their variants) move to a child node;
// ReturnToOrigin moves back. Navigating to an index or column that does not exist is a usage
// error: it panics with an error wrapping data.ErrIndexOutOfBounds, data.ErrColumnNotFound or
// data.ErrChangeNotFound, also inside a soft chain.
package assertdb

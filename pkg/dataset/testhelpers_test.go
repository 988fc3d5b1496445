package dataset

import (
	"testing"
	"testing/fstest"
)

const testPeople = `id,name,birth
102,Kevin Bacon,1958
129,Tom Cruise,1962
144,Cary Elwes,1962
158,Tom Hanks,1956
1597,Mandy Patinkin,1952
163,Dustin Hoffman,1937
1697,Chris Sarandon,1942
193,Demi Moore,1962
197,Jack Nicholson,1937
200,Bill Paxton,1955
398,Sally Field,1946
420,Valeria Golino,1965
596520,Gerald R. Molen,1935
641,Gary Sinise,1955
705,Robin Wright,1966
914612,Emma Watson,1990
`

const testMovies = `id,title,year
112384,"Apollo 13",1995
104257,"A Few Good Men",1992
109830,"Forrest Gump",1994
93779,"The Princess Bride",1987
95953,"Rain Man",1988
`

const testStars = `person_id,movie_id
102,104257
102,112384
129,104257
129,95953
144,93779
158,109830
158,112384
1597,93779
163,95953
1697,93779
193,104257
197,104257
200,112384
398,109830
420,95953
596520,95953
641,109830
641,112384
705,109830
705,93779
`

// smallFS is a sixteen-person dataset with one unconnected person
func smallFS() fstest.MapFS {
	return fstest.MapFS{
		PeopleFile: {Data: []byte(testPeople)},
		MoviesFile: {Data: []byte(testMovies)},
		StarsFile:  {Data: []byte(testStars)},
	}
}

func loadSmall(t *testing.T) *Store {
	t.Helper()
	store, _, err := NewLoader(nil).Load(smallFS())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

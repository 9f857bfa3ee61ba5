package tlc5947

import "strconv"

// NumChannels is the number of PWM outputs on one board.
const NumChannels = 24

// Channel addresses one of the 24 outputs. The only channels are the
// Channel1..Channel24 values; the zero value is Channel1.
type Channel struct {
	idx uint8
}

var (
	Channel1  = Channel{0}
	Channel2  = Channel{1}
	Channel3  = Channel{2}
	Channel4  = Channel{3}
	Channel5  = Channel{4}
	Channel6  = Channel{5}
	Channel7  = Channel{6}
	Channel8  = Channel{7}
	Channel9  = Channel{8}
	Channel10 = Channel{9}
	Channel11 = Channel{10}
	Channel12 = Channel{11}
	Channel13 = Channel{12}
	Channel14 = Channel{13}
	Channel15 = Channel{14}
	Channel16 = Channel{15}
	Channel17 = Channel{16}
	Channel18 = Channel{17}
	Channel19 = Channel{18}
	Channel20 = Channel{19}
	Channel21 = Channel{20}
	Channel22 = Channel{21}
	Channel23 = Channel{22}
	Channel24 = Channel{23}
)

// Channels returns every channel in ascending index order.
func Channels() [NumChannels]Channel {
	var all [NumChannels]Channel
	for i := range all {
		all[i] = Channel{uint8(i)}
	}
	return all
}

// Index is the 0-based buffer slot.
func (c Channel) Index() int { return int(c.idx) }

// Number is the 1-based label printed on the board.
func (c Channel) Number() int { return int(c.idx) + 1 }

func (c Channel) String() string {
	return "CH" + strconv.Itoa(c.Number())
}

package excel

import (
	"fmt"
	"os"
	"path/filepath"
)

// starterCSV is written when no dictionary exists yet
const starterCSV = `english,russian,ipa,example
time,время,taɪm,I don't have much time.
person,человек,ˈpɜːsən,She's a kind person.
year,год,jɪə,This year is important.
day,день,deɪ,What a beautiful day!
thing,вещь,θɪŋ,That's a simple thing.
man,мужчина,mæn,The man is walking.
woman,женщина,ˈwʊmən,That woman is a doctor.
child,ребёнок,tʃaɪld,Every child needs love.
world,мир,wɜːld,The world is changing.
work,работа, wɜːk,I work hard.
water,вода,ˈwɔːtə,Drink more water.
friend,друг,frend,He's my friend.
house,дом,haʊs,A big house.
money,деньги,ˈmʌni,Save your money.
game,игра,ɡeɪm,Let's play a game.
be,быть,biː,To be or not to be.
have,иметь,hæv,I have a car.
do,делать,duː,Do your best.
go,идти,ɡəʊ,Go home.
say,сказать,seɪ,Say it again.
get,получать,ɡet,Get some rest.
make,делать,meɪk,Make a plan.
see,видеть,siː,I see the point.
know,знать,nəʊ,I know him.
take,брать,teɪk,Take a seat.
`

// WriteStarter writes the built-in starter dictionary to path
func WriteStarter(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterCSV), 0644); err != nil {
		return fmt.Errorf("failed to write starter dictionary: %w", err)
	}
	return nil
}

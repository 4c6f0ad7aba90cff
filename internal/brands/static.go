package brands

import "github.com/creatorlink/product-pipeline-go/internal/model"

// staticBrands is the built-in fallback list used when the remote directory
// is unavailable or empty. Aliases are pre-normalized; the lookup list is
// re-sorted on every snapshot so insertion order here does not matter.
var staticBrands = []model.BrandEntry{
	{Name: "Anastasia Beverly Hills", Aliases: []string{"ABH"}},
	{Name: "Armani Beauty", Aliases: []string{"Giorgio Armani"}},
	{Name: "Benefit Cosmetics", Aliases: []string{"Benefit"}},
	{Name: "Bobbi Brown"},
	{Name: "CeraVe"},
	{Name: "Cetaphil"},
	{Name: "Chanel"},
	{Name: "Charlotte Tilbury"},
	{Name: "Clinique"},
	{Name: "COSRX"},
	{Name: "Dior"},
	{Name: "Drunk Elephant"},
	{Name: "Dyson"},
	{Name: "e.l.f. Cosmetics", Aliases: []string{"e.l.f.", "elf"}},
	{Name: "Estée Lauder", Aliases: []string{"Estee Lauder"}},
	{Name: "Farmacy"},
	{Name: "Fenty Beauty", Aliases: []string{"Fenty"}},
	{Name: "Gisou"},
	{Name: "Glossier"},
	{Name: "Glow Recipe"},
	{Name: "Hourglass"},
	{Name: "Huda Beauty"},
	{Name: "ILIA", Aliases: []string{"Ilia Beauty"}},
	{Name: "K18"},
	{Name: "Kosas"},
	{Name: "La Roche-Posay", Aliases: []string{"La Roche Posay"}},
	{Name: "Laneige"},
	{Name: "Laura Mercier"},
	{Name: "L'Oréal", Aliases: []string{"L'Oreal", "Loreal"}},
	{Name: "MAC", Aliases: []string{"M.A.C"}},
	{Name: "Makeup by Mario"},
	{Name: "Maybelline"},
	{Name: "Merit"},
	{Name: "NARS"},
	{Name: "Neutrogena"},
	{Name: "NYX"},
	{Name: "Olaplex"},
	{Name: "One/Size"},
	{Name: "OUAI", Aliases: []string{"Ouai Haircare"}},
	{Name: "Patrick Ta"},
	{Name: "Paula's Choice", Aliases: []string{"Paulas Choice"}},
	{Name: "Rare Beauty"},
	{Name: "Real Techniques"},
	{Name: "Rhode", Aliases: []string{"Rhode Skin"}},
	{Name: "Saie"},
	{Name: "Shark Beauty", Aliases: []string{"Shark"}},
	{Name: "Sol de Janeiro"},
	{Name: "Summer Fridays"},
	{Name: "Supergoop", Aliases: []string{"Supergoop!"}},
	{Name: "T3"},
	{Name: "Tatcha"},
	{Name: "The Ordinary"},
	{Name: "Too Faced"},
	{Name: "Tower 28", Aliases: []string{"Tower 28 Beauty"}},
	{Name: "Urban Decay"},
	{Name: "Westman Atelier"},
	{Name: "YSL Beauty", Aliases: []string{"YSL", "Yves Saint Laurent"}},
}

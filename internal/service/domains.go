package service

import "math/rand"

// RandomDomain 随机领域目录中的一个条目。Label 用于事件遥测，
// Title/Description 在生成时替代主题自身的名称与描述。
type RandomDomain struct {
	Label       string
	Title       string
	Description string
}

// randomDomainCatalog 固定的领域目录。Label 必须匹配 ^[a-z0-9_-]+$ 且不超过 64 字符。
var randomDomainCatalog = []RandomDomain{
	{
		Label:       "astronomy",
		Title:       "Astronomy and space exploration",
		Description: "Planets, stars, galaxies, space missions, telescopes and the physics of the cosmos.",
	},
	{
		Label:       "world_history",
		Title:       "World history",
		Description: "Major civilisations, turning points, conflicts and cultural movements across recorded history.",
	},
	{
		Label:       "human_biology",
		Title:       "Human biology",
		Description: "Organ systems, cells, genetics, immunity and how the human body works.",
	},
	{
		Label:       "earth_science",
		Title:       "Earth science",
		Description: "Geology, weather, oceans, volcanoes, plate tectonics and the climate system.",
	},
	{
		Label:       "classical_music",
		Title:       "Classical music",
		Description: "Composers, musical forms, instruments and landmark works from the baroque era onwards.",
	},
	{
		Label:       "world_geography",
		Title:       "World geography",
		Description: "Countries, capitals, rivers, mountain ranges and notable natural landmarks.",
	},
	{
		Label:       "economics",
		Title:       "Economics",
		Description: "Markets, inflation, trade, monetary policy and the ideas of influential economists.",
	},
	{
		Label:       "philosophy",
		Title:       "Philosophy",
		Description: "Schools of thought, famous arguments, ethics, logic and theory of knowledge.",
	},
	{
		Label:       "computing",
		Title:       "Computing and the internet",
		Description: "Algorithms, hardware milestones, networking concepts and the history of software.",
	},
	{
		Label:       "visual_arts",
		Title:       "Visual arts",
		Description: "Painting, sculpture, art movements, techniques and celebrated artists.",
	},
	{
		Label:       "mythology",
		Title:       "Mythology and folklore",
		Description: "Gods, heroes, creation myths and legendary creatures from cultures around the world.",
	},
	{
		Label:       "chemistry",
		Title:       "Chemistry",
		Description: "Elements, reactions, bonds, laboratory techniques and chemistry in everyday life.",
	},
}

// PickRandomDomain 从目录中等概率抽取一个领域。
func PickRandomDomain() RandomDomain {
	return randomDomainCatalog[rand.Intn(len(randomDomainCatalog))]
}

// IsKnownDomainLabel 判断标签是否来自固定目录。
func IsKnownDomainLabel(label string) bool {
	for _, domain := range randomDomainCatalog {
		if domain.Label == label {
			return true
		}
	}
	return false
}

// RandomDomainCatalog 返回目录副本，供测试与展示使用。
func RandomDomainCatalog() []RandomDomain {
	out := make([]RandomDomain, len(randomDomainCatalog))
	copy(out, randomDomainCatalog)
	return out
}

package protocol

import (
	"fmt"

	"github.com/tn-lorenz/SteelMC/internal/nbt"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
	"github.com/tn-lorenz/SteelMC/internal/packets"
)

// dimensionTypeEntry mirrors the vanilla dimension_type registry entry
// fields the client needs to render an overworld-like dimension. The
// embedded seed set carries exactly one entry; a server with more
// dimensions would need more, but flat-only scope needs no others.
type dimensionTypeEntry struct {
	HasSkylight         byte    `nbt:"has_skylight"`
	HasCeiling          byte    `nbt:"has_ceiling"`
	Ultrawarm           byte    `nbt:"ultrawarm"`
	Natural             byte    `nbt:"natural"`
	CoordinateScale     float64 `nbt:"coordinate_scale"`
	BedWorks            byte    `nbt:"bed_works"`
	RespawnAnchorWorks  byte    `nbt:"respawn_anchor_works"`
	MinY                int32   `nbt:"min_y"`
	Height              int32   `nbt:"height"`
	LogicalHeight       int32   `nbt:"logical_height"`
	InfiniburnTag       string  `nbt:"infiniburn"`
	Effects             string  `nbt:"effects"`
	Ambient             float32 `nbt:"ambient_light"`
	PiglinSafe          byte    `nbt:"piglin_safe"`
	HasRaids            byte    `nbt:"has_raids"`
	MonsterSpawnBlock   int32   `nbt:"monster_spawn_block_light_limit"`
	MonsterSpawnLight   int32   `nbt:"monster_spawn_light_level"`
}

func defaultDimensionType() dimensionTypeEntry {
	return dimensionTypeEntry{
		HasSkylight:        1,
		HasCeiling:         0,
		Ultrawarm:          0,
		Natural:            1,
		CoordinateScale:    1.0,
		BedWorks:           1,
		RespawnAnchorWorks: 0,
		MinY:               -64,
		Height:             384,
		LogicalHeight:      384,
		InfiniburnTag:      "#minecraft:infiniburn_overworld",
		Effects:            "minecraft:overworld",
		Ambient:            0,
		PiglinSafe:         0,
		HasRaids:           1,
		MonsterSpawnBlock:  0,
		MonsterSpawnLight:  7,
	}
}

// biomeEntry is the minimal biome registry entry a flat world's single
// "plains" biome needs.
type biomeEntry struct {
	HasPrecipitation byte    `nbt:"has_precipitation"`
	Temperature      float32 `nbt:"temperature"`
	Downfall         float32 `nbt:"downfall"`
	Effects          struct {
		SkyColor       int32 `nbt:"sky_color"`
		WaterColor     int32 `nbt:"water_color"`
		FogColor       int32 `nbt:"fog_color"`
		WaterFogColor  int32 `nbt:"water_fog_color"`
	} `nbt:"effects"`
}

func defaultBiome() biomeEntry {
	e := biomeEntry{HasPrecipitation: 1, Temperature: 0.8, Downfall: 0.4}
	e.Effects.SkyColor = 0x78A7FF
	e.Effects.WaterColor = 0x3F76E4
	e.Effects.FogColor = 0xC0D8FF
	e.Effects.WaterFogColor = 0x050533
	return e
}

// chatTypeEntry reproduces the vanilla "chat" chat_type's decoration:
// the translation key and parameter order the client uses to render a
// PlayerChatMessage. ChatTypeID 1 in chat.Validate's built packet refers
// to this entry: the field carries the registry index plus one, and this
// is the chat_type registry's only entry (index 0).
type chatTypeEntry struct {
	Chat struct {
		TranslationKey string   `nbt:"translation_key"`
		Parameters     []string `nbt:"parameters"`
	} `nbt:"chat"`
	Narration struct {
		TranslationKey string   `nbt:"translation_key"`
		Parameters     []string `nbt:"parameters"`
	} `nbt:"narration"`
}

func defaultChatType() chatTypeEntry {
	var e chatTypeEntry
	e.Chat.TranslationKey = "chat.type.text"
	e.Chat.Parameters = []string{"sender", "content"}
	e.Narration.TranslationKey = "chat.type.text.narrate"
	e.Narration.Parameters = []string{"sender", "content"}
	return e
}

// registryDataPackets builds the small embedded registry set this
// server ships instead of the full vanilla data pack: one RegistryData
// packet per registry, its Entries holding every named entry that
// registry needs encoded as a single NBT compound (opaque at the wire
// layer, per packets.RegistryData's shape).
func registryDataPackets() ([]*packets.RegistryData, error) {
	seeds := map[ns.Identifier]map[string]any{
		"minecraft:dimension_type": {"minecraft:overworld": defaultDimensionType()},
		"minecraft:worldgen/biome": {"minecraft:plains": defaultBiome()},
		"minecraft:chat_type":      {"minecraft:chat": defaultChatType()},
	}

	var out []*packets.RegistryData
	for registryID, entries := range seeds {
		payload, err := nbt.MarshalNetwork(entries)
		if err != nil {
			return nil, fmt.Errorf("encode registry %s: %w", registryID, err)
		}
		out = append(out, &packets.RegistryData{RegistryID: registryID, Entries: payload})
	}
	return out, nil
}
